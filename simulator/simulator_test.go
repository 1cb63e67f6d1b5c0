package simulator

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/equity"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/piece"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func mustParse(t *testing.T, rows ...string) board.Grid {
	t.Helper()
	g, err := board.ParseRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func twoPly() *Simulator {
	return New(equity.NewEvaluator(equity.DefaultWeights), 2)
}

func TestBestMoveLeavesGridAlone(t *testing.T) {
	is := is.New(t)
	g := mustParse(t,
		"#.........",
		"##......#.",
		"###.#..###",
		"####.#####",
	)
	s := twoPly()
	s.SetGrid(g)
	m, ok := s.BestMove(piece.T, piece.O)
	is.True(ok)
	is.Equal(s.Grid(), g)
	is.True(s.Evaluated() > 0)

	// the move is one the search can reach
	is.True(s.Analyze(piece.T))
	found := false
	for _, p := range s.Plays() {
		if p == m {
			found = true
		}
	}
	is.True(found)
}

func TestBestMoveDefaultDepth(t *testing.T) {
	if testing.Short() {
		t.Skip("three-ply search is slow")
	}
	is := is.New(t)
	s := NewDefault()
	is.Equal(s.Plies(), DefaultPlies)
	m, ok := s.BestMove(piece.O, piece.Unknown)
	is.True(ok)
	is.Equal(m.Row, 18) // an O on an empty board rests on the floor
	is.Equal(s.Grid(), board.NewGrid())
}

func TestBlockedSpawnHasNoMove(t *testing.T) {
	is := is.New(t)
	g := board.NewGrid()
	g.Set(1, 4)
	s := twoPly()
	s.SetGrid(g)
	is.True(!s.Analyze(piece.O))
	_, ok := s.BestMove(piece.O, piece.T)
	is.True(!ok)
}

func TestNoRestingPlaceHasNoMove(t *testing.T) {
	// The I can still spawn, but the stack reaches row 1 and there is
	// nowhere for it to come to rest.
	is := is.New(t)
	rows := make([]string, board.Height-1)
	for i := range rows {
		rows[i] = "#########."
		if i%2 == 1 {
			rows[i] = ".#########"
		}
	}
	g := mustParse(t, rows...)
	s := New(equity.NewEvaluator(equity.DefaultWeights), 1)
	s.SetGrid(g)
	is.True(s.Analyze(piece.I))
	_, ok := s.BestMove(piece.I, piece.Unknown)
	is.True(!ok)
}

func TestCommitTwoLines(t *testing.T) {
	is := is.New(t)
	g := mustParse(t,
		"####......",
		"####......",
		"#########.",
		"#########.",
	)
	s := twoPly()
	s.SetGrid(g)
	lines := s.Commit(move.Move{Piece: piece.I, Rot: 1, Col: 9, Row: 18})
	is.Equal(lines, 2)
	expected := mustParse(t,
		"####.....#",
		"####.....#",
	)
	is.Equal(s.Grid(), expected)
}

func TestBestMoveTakesTheTwoLines(t *testing.T) {
	is := is.New(t)
	g := mustParse(t,
		"####......",
		"####......",
		"#########.",
		"#########.",
	)
	s := twoPly()
	s.SetGrid(g)
	m, ok := s.BestMove(piece.I, piece.O)
	is.True(ok)
	is.Equal(m, move.Move{Piece: piece.I, Rot: 1, Col: 9, Row: 18})
	is.Equal(s.Commit(m), 2)
}

func TestInterpolateBestMove(t *testing.T) {
	is := is.New(t)
	s := twoPly()
	m, ok := s.BestMove(piece.L, piece.J)
	is.True(ok)
	// the search left the generator on some deeper position
	path := s.Interpolate(m)
	is.Equal(path[0], move.Move{Piece: piece.L, Col: board.SpawnCol, Row: board.SpawnRow})
	is.Equal(path[len(path)-1], m)
}

func TestZeroPliesPanics(t *testing.T) {
	is := is.New(t)
	defer func() {
		is.True(recover() != nil)
	}()
	New(equity.NewEvaluator(equity.DefaultWeights), 0)
}
