package automatic

import (
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tetrisai/stats"
)

const histogramBins = 10

// Summary describes a batch of self-play games.
type Summary struct {
	Requested   int           `yaml:"requested"`
	Games       int           `yaml:"games"`
	Threads     int           `yaml:"threads"`
	Canceled    bool          `yaml:"canceled"`
	Elapsed     time.Duration `yaml:"elapsed"`
	MeanLines   float64       `yaml:"mean_lines"`
	StdevLines  float64       `yaml:"stdev_lines"`
	CI95Low     float64       `yaml:"ci95_low"`
	CI95High    float64       `yaml:"ci95_high"`
	MedianLines float64       `yaml:"median_lines"`
	MinLines    int           `yaml:"min_lines"`
	MaxLines    int           `yaml:"max_lines"`
	MeanPieces  float64       `yaml:"mean_pieces"`
	MeanScore   float64       `yaml:"mean_score"`
	GamesOver   int           `yaml:"games_over"`
	Results     []Result      `yaml:"results,omitempty"`
}

// Summarize computes the statistics over finished games.
func Summarize(results []Result) *Summary {
	s := &Summary{Games: len(results), Results: results}
	if len(results) == 0 {
		return s
	}
	lines := &stats.Statistic{}
	pieces := &stats.Statistic{}
	score := &stats.Statistic{}
	for _, r := range results {
		lines.Push(float64(r.Lines))
		pieces.Push(float64(r.Pieces))
		score.Push(float64(r.Score))
	}
	s.MeanLines = lines.Mean()
	s.StdevLines = lines.Stdev()
	s.CI95Low, s.CI95High = lines.ConfidenceInterval(95)
	s.MedianLines = stats.Median(s.linesData())
	s.MinLines = int(lines.Min())
	s.MaxLines = int(lines.Max())
	s.MeanPieces = pieces.Mean()
	s.MeanScore = score.Mean()
	s.GamesOver = lo.CountBy(results, func(r Result) bool { return r.GameOver })
	return s
}

func (s *Summary) linesData() []float64 {
	return lo.Map(s.Results, func(r Result, _ int) float64 {
		return float64(r.Lines)
	})
}

// YAML marshals the summary. Per-game results are left out unless
// withResults is set.
func (s *Summary) YAML(withResults bool) ([]byte, error) {
	out := *s
	if !withResults {
		out.Results = nil
	}
	return yaml.Marshal(out)
}

// WriteHistogram prints the distribution of lines per game.
func (s *Summary) WriteHistogram(w io.Writer) error {
	if len(s.Results) == 0 {
		_, err := fmt.Fprintln(w, "no games finished")
		return err
	}
	h := histogram.Hist(histogramBins, s.linesData())
	return histogram.Fprint(w, h, histogram.Linear(40))
}
