package equity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/tetrisai/board"
)

// Feature names one of the weighted board measurements.
type Feature int

const (
	FeatureMaxHeight Feature = iota
	FeatureCompactness
	FeatureDistortion

	NumFeatures
)

func (f Feature) String() string {
	switch f {
	case FeatureMaxHeight:
		return "max-height"
	case FeatureCompactness:
		return "compactness"
	case FeatureDistortion:
		return "distortion"
	}
	return "unknown"
}

// Weights multiply the features, in Feature order.
type Weights [NumFeatures]float64

var DefaultWeights = Weights{0.33333334, 0.5833333, 0.183333336}

func (w Weights) String() string {
	parts := lo.Map(w[:], func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	})
	return strings.Join(parts, ",")
}

// ParseWeights reads the comma-separated form produced by String.
func ParseWeights(s string) (Weights, error) {
	var w Weights
	parts := strings.Split(s, ",")
	if len(parts) != int(NumFeatures) {
		return w, fmt.Errorf("need %d weights, got %d", NumFeatures, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return w, fmt.Errorf("weight %v: %w", Feature(i), err)
		}
		w[i] = v
	}
	return w, nil
}

// Evaluator is the weighted-feature Calculator.
type Evaluator struct {
	weights Weights
}

func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w}
}

func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Features returns the unweighted measurements of g, in Feature order.
func (e *Evaluator) Features(g board.Grid) [NumFeatures]float64 {
	h := NewHeuristics(g)
	return [NumFeatures]float64{h.MaxHeight(g), h.Compactness(), h.Distortion()}
}

// Quality is 0 once anything sits in the top visible row; the next piece
// may not be able to spawn.
func (e *Evaluator) Quality(g board.Grid) float64 {
	if g.RowOccupied(0) {
		return 0
	}
	vals := e.Features(g)
	return lo.SumBy(lo.Range(int(NumFeatures)), func(i int) float64 {
		return vals[i] * e.weights[i]
	})
}
