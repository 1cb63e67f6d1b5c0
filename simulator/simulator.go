// Package simulator owns the live board and picks placements for it with a
// fixed-depth expectimax over the upcoming pieces.
package simulator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/equity"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/movegen"
	"github.com/domino14/tetrisai/piece"
)

// DefaultPlies is the search depth: the current piece, the preview piece and
// one unknown piece.
const DefaultPlies = 3

type Simulator struct {
	grid  board.Grid
	gen   *movegen.Generator
	calc  equity.Calculator
	plies int

	// one play list per ply, since the generator's list is overwritten by
	// every deeper Analyze.
	buffers [][]move.Move

	best      move.Move
	found     bool
	evaluated int
}

// New creates a simulator on an empty board.
func New(calc equity.Calculator, plies int) *Simulator {
	s := &Simulator{
		grid: board.NewGrid(),
		gen:  movegen.NewGenerator(),
		calc: calc,
	}
	s.SetPlies(plies)
	return s
}

// NewDefault uses the default weights and depth.
func NewDefault() *Simulator {
	return New(equity.NewEvaluator(equity.DefaultWeights), DefaultPlies)
}

func (s *Simulator) Grid() board.Grid {
	return s.grid
}

func (s *Simulator) SetGrid(g board.Grid) {
	s.grid = g
}

func (s *Simulator) Plies() int {
	return s.plies
}

// SetPlies sets the search depth. It panics below 1; a zero-ply search
// cannot pick a move.
func (s *Simulator) SetPlies(plies int) {
	if plies < 1 {
		panic(fmt.Sprintf("search depth must be at least 1, got %d", plies))
	}
	s.plies = plies
	s.buffers = make([][]move.Move, plies)
}

func (s *Simulator) Calculator() equity.Calculator {
	return s.calc
}

func (s *Simulator) SetCalculator(c equity.Calculator) {
	s.calc = c
}

// Evaluated is the number of leaf positions the last BestMove scored.
func (s *Simulator) Evaluated() int {
	return s.evaluated
}

// Analyze runs the reachability search for p on the live board.
func (s *Simulator) Analyze(p piece.Piece) bool {
	return s.gen.Analyze(s.grid, p)
}

// Plays returns the resting placements of the last Analyze.
func (s *Simulator) Plays() []move.Move {
	return s.gen.Plays()
}

// Allowed exposes the reachability of the last Analyze.
func (s *Simulator) Allowed(r, c, rot int) bool {
	return s.gen.Allowed(r, c, rot)
}

// Interpolate returns the step-by-step path from spawn to m on the live
// board. The board is re-analyzed for m's piece first, so m may come from
// BestMove directly.
func (s *Simulator) Interpolate(m move.Move) []move.Move {
	s.gen.Analyze(s.grid, m.Piece)
	return s.gen.Interpolate(m)
}

// BestMove picks the placement of cur that maximizes the expected quality
// over the search depth. next is the preview piece, or piece.Unknown. It
// returns false when cur has no placement that leads anywhere, including
// when every line of play ends the game. The live board is not changed.
func (s *Simulator) BestMove(cur, next piece.Piece) (move.Move, bool) {
	start := time.Now()
	s.found = false
	s.best = move.Move{}
	s.evaluated = 0
	q := s.quality(cur, next, s.grid, 0)
	log.Debug().Str("piece", cur.String()).Str("next", next.String()).
		Bool("found", s.found).Str("move", s.best.ShortDescription()).
		Float64("quality", q).Int("evaluated", s.evaluated).
		Dur("elapsed", time.Since(start)).Msg("best-move")
	return s.best, s.found
}

// quality is the expected best quality reachable from g when p is to be
// placed at this ply. Pieces beyond the preview are uniformly random.
func (s *Simulator) quality(p, next piece.Piece, g board.Grid, level int) float64 {
	if level == s.plies {
		s.evaluated++
		return s.calc.Quality(g)
	}
	var candidates []piece.Piece
	if p == piece.Unknown {
		candidates = piece.All[:]
	} else {
		candidates = []piece.Piece{p}
	}
	probability := 1 / float64(len(candidates))
	total := 0.0
	for _, c := range candidates {
		if !s.gen.Analyze(g, c) {
			continue
		}
		s.buffers[level] = append(s.buffers[level][:0], s.gen.Plays()...)
		q := 0.0
		for _, m := range s.buffers[level] {
			fp := m.Footprint()
			g.Imprint(fp, m.Col, m.Row)
			cleared, _ := board.Eliminate(g)
			g.Erase(fp, m.Col, m.Row)
			childQ := s.quality(next, piece.Unknown, cleared, level+1)
			if q < childQ {
				q = childQ
				if level == 0 {
					s.best = m
					s.found = true
				}
			}
		}
		total += probability * q
	}
	return total
}

// Commit places m on the live board, clears full rows and returns how many
// were cleared.
func (s *Simulator) Commit(m move.Move) int {
	s.grid.Imprint(m.Footprint(), m.Col, m.Row)
	var lines int
	s.grid, lines = board.Eliminate(s.grid)
	return lines
}
