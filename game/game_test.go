package game

import (
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/config"
	"github.com/domino14/tetrisai/equity"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/piece"
	"github.com/domino14/tetrisai/simulator"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestGame(pieces ...piece.Piece) *AIGame {
	sim := simulator.New(equity.NewEvaluator(equity.DefaultWeights), 2)
	return NewAIGame(sim, NewSequenceSource(pieces...))
}

// overlayMatchesGrid checks that every shown overlay cell is a filled board
// cell and vice versa.
func overlayMatchesGrid(is *is.I, g *AIGame) {
	grid := g.Grid()
	for r := 0; r < board.Height; r++ {
		for c := 0; c < board.Width; c++ {
			is.Equal(g.Cell(c, board.Height-1-r).State == Shown, grid.At(r, c))
		}
	}
}

func TestOSequenceConservesCells(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.O)
	for i := 0; i < 12; i++ {
		_, lines, ok := g.PlayPiece()
		is.True(ok)
		is.True(lines <= 2)
		overlayMatchesGrid(is, g)
	}
	st := g.Stats()
	is.Equal(st.Pieces, 12)
	is.Equal(g.Grid().FilledCells()+board.Width*st.Lines, 4*st.Pieces)
	is.True(st.Lines > 0)
}

func TestFiveOsNeverClear(t *testing.T) {
	is := is.New(t)
	g := NewAIGame(simulator.NewDefault(), NewSequenceSource(piece.O))
	committed := 0
	for ticks := 0; committed < 5; ticks++ {
		is.True(ticks < 1000) // pieces keep landing
		is.True(g.State() != GameOver)
		g.Step()
		st := g.Stats()
		if st.Pieces == committed {
			continue
		}
		committed = st.Pieces
		is.Equal(st.Lines, 0)
		is.Equal(g.Grid().FilledCells(), 4*committed)
	}
	overlayMatchesGrid(is, g)
}

func TestStepPlaysBackThePath(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.T, piece.I)
	is.True(g.Step()) // the first tick plans
	path, cursor := g.Path()
	is.Equal(cursor, 0)
	is.True(len(path) >= 2)
	is.Equal(path[len(path)-1], path[len(path)-2])
	is.Equal(g.State(), Executing)

	ticks := 0
	for {
		ticks++
		if g.Step() {
			break
		}
	}
	is.Equal(ticks, len(path))
	is.Equal(g.Stats().Pieces, 1)
	is.Equal(g.Stats().Current, piece.I)
	is.Equal(g.Grid().FilledCells(), 4)
	overlayMatchesGrid(is, g)
}

func TestStepShowsOnePieceAtATime(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.L)
	is.True(g.Step())
	for i := 0; i < 5; i++ {
		g.Step()
		shown := 0
		for y := 0; y < board.Height; y++ {
			for x := 0; x < board.Width; x++ {
				if g.Cell(x, y).State == Shown {
					shown++
				}
			}
		}
		// the piece may still be partly above the visible rows
		is.True(shown <= 4)
	}
}

func TestStepClearsTwoLines(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.I, piece.O)
	grid, err := board.ParseRows([]string{
		"####......",
		"####......",
		"#########.",
		"#########.",
	})
	is.NoErr(err)
	g.SetGrid(grid)
	is.True(g.Step())
	target, ok := g.Planned()
	is.True(ok)
	is.Equal(target, move.Move{Piece: piece.I, Rot: 1, Col: 9, Row: 18})
	for !g.Step() {
	}
	is.Equal(g.Stats().Lines, 2)
	is.Equal(g.Stats().Score, 200)
	// both dying rows are still on screen until the next tick
	dying := 0
	for y := 0; y < board.Height; y++ {
		if g.Cell(0, y).State == Dying {
			dying++
		}
	}
	is.Equal(dying, 2)
	g.Step()
	is.Equal(g.Cell(0, 0).State, Shown)
	is.Equal(g.Cell(9, 0).State, Shown)
	is.Equal(g.Cell(5, 0).State, Hidden)
}

func TestCollectByRenderer(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.I, piece.O)
	grid, err := board.ParseRows([]string{
		"####......",
		"####......",
		"#########.",
		"#########.",
	})
	is.NoErr(err)
	g.SetGrid(grid)
	for !g.Step() {
	}
	for !g.Step() {
	}
	is.Equal(g.Collect(), 2)
	is.Equal(g.Collect(), 0)
	overlayMatchesGrid(is, g)
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.O)
	grid := board.NewGrid()
	grid.Set(1, 4)
	g.SetGrid(grid)
	is.True(!g.Step())
	is.True(g.Stats().GameOver)
	is.Equal(g.State(), GameOver)
	is.True(!g.Step())
	_, _, ok := g.PlayPiece()
	is.True(!ok)

	g.Reset()
	is.True(!g.Stats().GameOver)
	is.True(g.Step())
}

func TestPlayManyPieces(t *testing.T) {
	is := is.New(t)
	sim := simulator.New(equity.NewEvaluator(equity.DefaultWeights), 1)
	g := NewAIGame(sim, NewSequenceSource(piece.S, piece.Z, piece.S, piece.S, piece.I))
	for i := 0; i < 40; i++ {
		_, _, ok := g.PlayPiece()
		if !ok {
			is.True(g.Stats().GameOver)
			break
		}
		overlayMatchesGrid(is, g)
	}
	st := g.Stats()
	is.True(st.Pieces > 0)
	is.Equal(g.Grid().FilledCells()+board.Width*st.Lines, 4*st.Pieces)
}

func TestLevelBounds(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.O)
	is.Equal(g.Stats().Level, DefaultLevel)
	for i := 0; i < 20; i++ {
		g.SpeedUp()
	}
	is.Equal(g.Stats().Level, MaxLevel)
	for i := 0; i < 50; i++ {
		g.SlowDown()
	}
	is.Equal(g.Stats().Level, MinLevel)
}

func TestNextPieceCell(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.O, piece.I)
	is.Equal(g.Stats().Next, piece.I)
	shown := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if g.NextPieceCell(x, y).State == Shown {
				shown++
				is.Equal(y, 1) // box row 2, counted from the bottom
			}
		}
	}
	is.Equal(shown, 4)
}

func TestNewFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigPlies, 1)
	cfg.Set(config.ConfigSeed, 42)
	cfg.Set(config.ConfigLevel, 99)
	g, err := NewFromConfig(&cfg, nil)
	is.NoErr(err)
	is.Equal(g.Simulator().Plies(), 1)
	is.Equal(g.Stats().Level, MaxLevel)

	h, err := NewFromConfig(&cfg, nil)
	is.NoErr(err)
	is.Equal(h.Stats().Current, g.Stats().Current) // same seed, same pieces
	is.Equal(h.Stats().Next, g.Stats().Next)

	cfg.Set(config.ConfigWeights, "1,2")
	_, err = NewFromConfig(&cfg, nil)
	is.True(err != nil)
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	g := newTestGame(piece.T, piece.I)
	g.PlayPiece()
	out := g.ToDisplayText()
	is.True(strings.Contains(out, "Lines:   0"))
	is.True(strings.Contains(out, "Current: I"))
	is.True(strings.Contains(out, "T "))
}
