// Package game drives a self-playing Tetris game. Every tick advances the
// falling piece one step along the path the simulator planned for it, and a
// piece that reaches the end of its path is committed to the board.
package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/config"
	"github.com/domino14/tetrisai/equity"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/piece"
	"github.com/domino14/tetrisai/simulator"
)

type State uint8

const (
	Planning State = iota
	Executing
	Committing
	GameOver
)

func (s State) String() string {
	switch s {
	case Planning:
		return "planning"
	case Executing:
		return "executing"
	case Committing:
		return "committing"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

const (
	MinLevel     = 1
	MaxLevel     = 35
	DefaultLevel = 26
)

var lineScores = [5]int{0, 100, 200, 400, 800}

// Stats summarizes a game.
type Stats struct {
	Lines    int
	Score    int
	Pieces   int
	Level    int
	Current  piece.Piece
	Next     piece.Piece
	GameOver bool
}

// AIGame is a game played by the simulator. It is not safe for concurrent
// use.
type AIGame struct {
	sim    *simulator.Simulator
	source PieceSource

	cur, next piece.Piece
	overlay   overlay

	// moves is the planned path of the current piece, its last entry
	// repeated so the landing is held for one extra tick.
	moves  []move.Move
	cursor int

	state State
	stats Stats
}

func NewAIGame(sim *simulator.Simulator, source PieceSource) *AIGame {
	g := &AIGame{sim: sim, source: source}
	g.cur = source.Next()
	g.next = source.Next()
	g.stats.Level = DefaultLevel
	return g
}

// NewFromConfig builds a game using the configured weights, search depth
// and level. A nil source draws random pieces from the configured seed.
func NewFromConfig(cfg *config.Config, source PieceSource) (*AIGame, error) {
	w, err := equity.ParseWeights(cfg.GetString(config.ConfigWeights))
	if err != nil {
		return nil, fmt.Errorf("bad %s setting: %w", config.ConfigWeights, err)
	}
	plies := cfg.GetInt(config.ConfigPlies)
	if plies < 1 {
		return nil, fmt.Errorf("bad %s setting: %d", config.ConfigPlies, plies)
	}
	if source == nil {
		rs := NewRandomSource(cfg.GetUint64(config.ConfigSeed))
		log.Debug().Uint64("seed", rs.Seed()).Msg("random seed for this game")
		source = rs
	}
	g := NewAIGame(simulator.New(equity.NewEvaluator(w), plies), source)
	g.SetLevel(cfg.GetInt(config.ConfigLevel))
	return g, nil
}

// Reset clears the board and draws new pieces. The level is kept.
func (g *AIGame) Reset() {
	g.sim.SetGrid(board.NewGrid())
	g.overlay = overlay{}
	g.moves = g.moves[:0]
	g.cursor = 0
	g.state = Planning
	g.cur = g.source.Next()
	g.next = g.source.Next()
	g.stats = Stats{Level: g.stats.Level}
}

// Step advances the game by one tick. It returns true when a new piece has
// just been planned and starts falling with the next tick, and false once
// the game is over.
func (g *AIGame) Step() bool {
	if g.state == GameOver {
		return false
	}
	if len(g.moves) > 0 {
		if g.cursor == 0 {
			// rows that finished dying while the last piece was held
			g.Collect()
		}
		g.advanceOverlay()
		g.cursor++
	}
	if g.cursor == len(g.moves) {
		if len(g.moves) > 0 {
			g.commit(g.moves[len(g.moves)-1])
		}
		if !g.plan() {
			return false
		}
	}
	return g.cursor == 0
}

// PlayPiece places the current piece at once, skipping the playback. It
// returns the placement and the rows it cleared, or false if the game is
// over.
func (g *AIGame) PlayPiece() (move.Move, int, bool) {
	if g.state == GameOver {
		return move.Move{}, 0, false
	}
	if len(g.moves) == 0 && !g.plan() {
		return move.Move{}, 0, false
	}
	g.Collect()
	if g.cursor > 0 {
		g.overlay.setPiece(g.moves[g.cursor-1], Hidden)
	}
	final := g.moves[len(g.moves)-1]
	g.overlay.setPiece(final, Shown)
	g.overlay.markDying()
	g.Collect()
	lines := g.commit(final)
	g.plan()
	return final, lines, true
}

// plan asks the simulator for the current piece's placement and the path to
// it.
func (g *AIGame) plan() bool {
	g.state = Planning
	best, ok := g.sim.BestMove(g.cur, g.next)
	if !ok {
		g.state = GameOver
		g.stats.GameOver = true
		g.moves = g.moves[:0]
		g.cursor = 0
		log.Info().Int("lines", g.stats.Lines).Int("pieces", g.stats.Pieces).
			Str("piece", g.cur.String()).Msg("game-over")
		return false
	}
	path := g.sim.Interpolate(best)
	g.moves = append(path, path[len(path)-1])
	g.cursor = 0
	g.state = Executing
	log.Debug().Str("move", best.ShortDescription()).Int("steps", len(path)).
		Msg("planned")
	return true
}

func (g *AIGame) commit(m move.Move) int {
	g.state = Committing
	lines := g.sim.Commit(m)
	g.stats.Lines += lines
	g.stats.Score += lineScores[lines]
	g.stats.Pieces++
	g.cur = g.next
	g.next = g.source.Next()
	log.Debug().Str("move", m.ShortDescription()).Int("lines", lines).
		Int("total-lines", g.stats.Lines).Msg("committed")
	return lines
}

func (g *AIGame) advanceOverlay() {
	if g.cursor > 0 {
		g.overlay.setPiece(g.moves[g.cursor-1], Hidden)
	}
	g.overlay.setPiece(g.moves[g.cursor], Shown)
	if g.cursor == len(g.moves)-1 {
		g.overlay.markDying()
	}
}

// Collect removes the rows marked dying from the overlay and returns how
// many there were. Step collects on its own before the next piece moves; a
// renderer may call it earlier, once it has animated the rows.
func (g *AIGame) Collect() int {
	return g.overlay.collect()
}

// Cell returns the overlay cell at column x, row y, counting rows from the
// bottom.
func (g *AIGame) Cell(x, y int) Cell {
	return g.overlay[y][x]
}

// NextPieceCell returns the preview of the next piece on a 4x4 grid, rows
// counted from the bottom.
func (g *AIGame) NextPieceCell(x, y int) Cell {
	fp := g.next.Footprint(0)
	if fp.At(3-y, x) {
		return Cell{State: Shown, Piece: g.next}
	}
	return Cell{State: Hidden, Piece: g.next}
}

func (g *AIGame) Stats() Stats {
	s := g.stats
	s.Current = g.cur
	s.Next = g.next
	return s
}

func (g *AIGame) State() State {
	return g.state
}

// SpeedUp and SlowDown move the playback level within its bounds.
func (g *AIGame) SpeedUp() {
	g.SetLevel(g.stats.Level + 1)
}

func (g *AIGame) SlowDown() {
	g.SetLevel(g.stats.Level - 1)
}

func (g *AIGame) SetLevel(level int) {
	g.stats.Level = min(max(level, MinLevel), MaxLevel)
}

func (g *AIGame) Simulator() *simulator.Simulator {
	return g.sim
}

func (g *AIGame) Grid() board.Grid {
	return g.sim.Grid()
}

// SetGrid replaces the board, abandoning the current piece's plan.
func (g *AIGame) SetGrid(b board.Grid) {
	g.sim.SetGrid(b)
	g.overlay = overlayFromGrid(b)
	g.moves = g.moves[:0]
	g.cursor = 0
	g.state = Planning
	g.stats.GameOver = false
}

// Path returns the planned steps of the current piece and how many of them
// have been shown.
func (g *AIGame) Path() ([]move.Move, int) {
	return g.moves, g.cursor
}

// Planned returns the placement the current piece is heading for.
func (g *AIGame) Planned() (move.Move, bool) {
	if len(g.moves) == 0 {
		return move.Move{}, false
	}
	return g.moves[len(g.moves)-1], true
}
