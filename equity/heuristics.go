package equity

import (
	"github.com/domino14/tetrisai/board"
)

// Heuristics holds the per-column measurements the features are computed
// from.
type Heuristics struct {
	// ColumnHeights is the distance from the highest filled cell of each
	// column to the floor, 0 for an empty column.
	ColumnHeights [board.Width]int
	FilledTotal   int
}

func NewHeuristics(g board.Grid) *Heuristics {
	h := &Heuristics{}
	for c := 0; c < board.Width; c++ {
		for r := 0; r < board.Height; r++ {
			if g.At(r, c) {
				h.ColumnHeights[c] = board.Height - r
				break
			}
		}
	}
	h.FilledTotal = g.FilledCells()
	return h
}

// MaxHeight is the index of the highest occupied row over the board height,
// so an empty board scores 1 and a stack reaching the top scores 0.
func (h *Heuristics) MaxHeight(g board.Grid) float64 {
	for r := 0; r < board.Height; r++ {
		if g.Row(r) != board.EmptyRow {
			return float64(r) / board.Height
		}
	}
	return 1
}

// Compactness is the fraction of the area under the column heights that is
// actually filled. Holes lower it.
func (h *Heuristics) Compactness() float64 {
	total := 0
	for _, ch := range h.ColumnHeights {
		total += ch
	}
	if total == 0 {
		return 1
	}
	return float64(h.FilledTotal) / float64(total)
}

// Distortion is 1 minus the summed height difference between neighbouring
// columns, normalised by the largest possible sum.
func (h *Heuristics) Distortion() float64 {
	diffs := 0
	for c := 1; c < board.Width; c++ {
		d := h.ColumnHeights[c] - h.ColumnHeights[c-1]
		if d < 0 {
			d = -d
		}
		diffs += d
	}
	const maxDiffs = board.Height * (board.Width - 1)
	return 1 - float64(diffs)/maxDiffs
}
