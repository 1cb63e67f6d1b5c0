package equity

import (
	"github.com/domino14/tetrisai/board"
)

// Calculator is a static evaluator of a position.
type Calculator interface {
	// Quality grades a board after a placement and line clears. Higher is
	// better; 0 is reserved for boards the game cannot continue from.
	Quality(g board.Grid) float64
}
