package game

import (
	"fmt"

	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/piece"
)

type CellState uint8

const (
	Hidden CellState = iota
	Shown
	Dying
)

// Cell is one square of the rendered playfield.
type Cell struct {
	State CellState
	Piece piece.Piece
}

// overlay is the rendered playfield, row 0 at the bottom. It mirrors the
// board plus the falling piece.
type overlay [board.Height][board.Width]Cell

func overlayFromGrid(b board.Grid) overlay {
	var o overlay
	for r := 0; r < board.Height; r++ {
		for c := 0; c < board.Width; c++ {
			if b.At(r, c) {
				o[board.Height-1-r][c].State = Shown
			}
		}
	}
	return o
}

// setPiece shows or hides the cells of a placement. Cells above the visible
// rows are skipped.
func (o *overlay) setPiece(m move.Move, state CellState) {
	fp := m.Footprint()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if !fp.At(r, c) {
				continue
			}
			x := m.Col - 2 + c
			y := board.Height - 1 - (m.Row - 2 + r)
			if x < 0 || x >= board.Width || y < 0 || y >= board.Height {
				continue
			}
			cell := &o[y][x]
			if (state == Shown) == (cell.State == Shown) {
				panic(fmt.Sprintf("overlay out of sync at (%d, %d) for %v", x, y, m.ShortDescription()))
			}
			cell.State = state
			cell.Piece = m.Piece
		}
	}
}

func (o *overlay) markDying() {
	for y := range o {
		full := true
		for x := range o[y] {
			if o[y][x].State != Shown {
				full = false
				break
			}
		}
		if full {
			for x := range o[y] {
				o[y][x].State = Dying
			}
		}
	}
}

func (o *overlay) collect() int {
	lines := 0
	dst := 0
	for src := 0; src < board.Height; src++ {
		dying := true
		for x := range o[src] {
			if o[src][x].State != Dying {
				dying = false
				break
			}
		}
		if dying {
			lines++
			continue
		}
		o[dst] = o[src]
		dst++
	}
	for ; dst < board.Height; dst++ {
		o[dst] = [board.Width]Cell{}
	}
	return lines
}
