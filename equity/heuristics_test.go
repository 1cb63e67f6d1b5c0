package equity

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/tetrisai/board"
)

func mustParse(t *testing.T, rows ...string) board.Grid {
	t.Helper()
	g, err := board.ParseRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestEmptyBoard(t *testing.T) {
	is := is.New(t)
	g := board.NewGrid()
	h := NewHeuristics(g)
	is.Equal(h.ColumnHeights, [board.Width]int{})
	is.Equal(h.FilledTotal, 0)
	is.Equal(h.MaxHeight(g), 1.0)
	is.Equal(h.Compactness(), 1.0)
	is.Equal(h.Distortion(), 1.0)
}

func TestColumnHeights(t *testing.T) {
	is := is.New(t)
	g := mustParse(t,
		"#.#.......",
		"#.........",
		"###......#",
	)
	h := NewHeuristics(g)
	is.Equal(h.ColumnHeights, [board.Width]int{3, 1, 3, 0, 0, 0, 0, 0, 0, 1})
	is.Equal(h.FilledTotal, 7)
	assert.InDelta(t, 17.0/20, h.MaxHeight(g), 1e-9)
	assert.InDelta(t, 7.0/8, h.Compactness(), 1e-9) // one hole under column 2
	// |1-3| + |3-1| + |0-3| + |1-0|
	assert.InDelta(t, 1-8.0/180, h.Distortion(), 1e-9)
}

func TestCompactnessDropsWithHole(t *testing.T) {
	is := is.New(t)
	solid := mustParse(t,
		"####......",
		"####......",
	)
	holed := mustParse(t,
		"####.#....",
		"####......",
	)
	is.Equal(NewHeuristics(solid).Compactness(), 1.0)
	is.True(NewHeuristics(holed).Compactness() < NewHeuristics(solid).Compactness())
}

func TestQualityTopRowIsZero(t *testing.T) {
	is := is.New(t)
	e := NewEvaluator(DefaultWeights)
	g := board.NewGrid()
	g.Set(0, 0)
	is.Equal(e.Quality(g), 0.0)
}

func TestQualityEmptyBoard(t *testing.T) {
	e := NewEvaluator(DefaultWeights)
	sum := DefaultWeights[0] + DefaultWeights[1] + DefaultWeights[2]
	assert.InDelta(t, sum, e.Quality(board.NewGrid()), 1e-9)
}

func TestQualityPrefersFlatLowBoards(t *testing.T) {
	is := is.New(t)
	e := NewEvaluator(DefaultWeights)
	flat := mustParse(t, "########..")
	tower := mustParse(t,
		"#.........",
		"#.........",
		"#.........",
		"#.........",
		"#.........",
		"#.........",
		"#.........",
		"#.........",
	)
	is.True(e.Quality(flat) > e.Quality(tower))
}

func TestWeightsParse(t *testing.T) {
	is := is.New(t)
	w, err := ParseWeights(DefaultWeights.String())
	is.NoErr(err)
	is.Equal(w, DefaultWeights)
	w, err = ParseWeights("1, 0.5, 0")
	is.NoErr(err)
	is.Equal(w, Weights{1, 0.5, 0})
	_, err = ParseWeights("1,2")
	is.True(err != nil)
	_, err = ParseWeights("1,x,2")
	is.True(err != nil)
}
