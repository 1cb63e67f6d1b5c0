// Package automatic plays AI games without a display, many at a time, and
// summarizes how long they lasted.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisai/config"
	"github.com/domino14/tetrisai/equity"
	"github.com/domino14/tetrisai/game"
	"github.com/domino14/tetrisai/simulator"
)

// LogHeader is the first line of the per-piece log.
const LogHeader = "gameID,piece,next,move,lines,totalLines,boardHash\n"

// Result is the outcome of one game.
type Result struct {
	GameID   int    `yaml:"game_id"`
	Seed     uint64 `yaml:"seed"`
	Lines    int    `yaml:"lines"`
	Score    int    `yaml:"score"`
	Pieces   int    `yaml:"pieces"`
	GameOver bool   `yaml:"game_over"`
}

// GameRunner plays games one after another with the same search settings.
type GameRunner struct {
	weights   equity.Weights
	plies     int
	maxPieces int
	logchan   chan string
}

// NewGameRunner reads the search settings from cfg. Log lines go to logchan
// if it is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	w, err := equity.ParseWeights(cfg.GetString(config.ConfigWeights))
	if err != nil {
		return nil, fmt.Errorf("bad %s setting: %w", config.ConfigWeights, err)
	}
	plies := cfg.GetInt(config.ConfigPlies)
	if plies < 1 {
		return nil, fmt.Errorf("bad %s setting: %d", config.ConfigPlies, plies)
	}
	return &GameRunner{
		weights:   w,
		plies:     plies,
		maxPieces: cfg.GetInt(config.ConfigMaxPieces),
		logchan:   logchan,
	}, nil
}

// PlayGame plays one game to the end, or until the piece limit. The context
// is checked between pieces.
func (r *GameRunner) PlayGame(ctx context.Context, gameID int, seed uint64) (Result, error) {
	source := game.NewRandomSource(seed)
	sim := simulator.New(equity.NewEvaluator(r.weights), r.plies)
	g := game.NewAIGame(sim, source)
	res := Result{GameID: gameID, Seed: source.Seed()}

	for r.maxPieces == 0 || g.Stats().Pieces < r.maxPieces {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		before := g.Stats()
		m, lines, ok := g.PlayPiece()
		if !ok {
			break
		}
		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%d,%v,%v,%v,%d,%d,%x\n",
				gameID, before.Current, before.Next, m.ShortDescription(),
				lines, g.Stats().Lines, g.Grid().Hash())
		}
	}
	st := g.Stats()
	res.Lines = st.Lines
	res.Score = st.Score
	res.Pieces = st.Pieces
	res.GameOver = st.GameOver
	log.Debug().Int("game", gameID).Int("lines", st.Lines).Int("pieces", st.Pieces).
		Bool("game-over", st.GameOver).Msg("game-finished")
	return res, nil
}
