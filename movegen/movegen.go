// Package movegen finds every resting place a piece can reach from its spawn
// cell by shifting, rotating in place and falling, and reconstructs the
// shortest sequence of those steps to any of them.
package movegen

import (
	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/piece"
)

// CellInfo is the set of rotations a piece can hold with its box anchored at
// one cell.
type CellInfo uint8

func (c CellInfo) Allowed(rot int) bool {
	return c&(1<<rot) != 0
}

func (c *CellInfo) allow(rot int) {
	*c |= 1 << rot
}

// Generator runs the reachability search for one piece at a time. The
// results of the last Analyze stay available to Plays, Allowed and
// Interpolate until the next call.
type Generator struct {
	grid  board.Grid
	piece piece.Piece

	cells    [board.Height][board.Width]CellInfo
	recorded [board.Height][board.Width]CellInfo
	plays    []move.Move
}

func NewGenerator() *Generator {
	return &Generator{plays: make([]move.Move, 0, 64)}
}

// Analyze searches the placements of p on g. It returns false when the piece
// cannot even appear at the spawn cell, which ends the game.
func (gen *Generator) Analyze(g board.Grid, p piece.Piece) bool {
	gen.grid = g
	gen.piece = p
	gen.cells = [board.Height][board.Width]CellInfo{}
	gen.recorded = [board.Height][board.Width]CellInfo{}
	gen.plays = gen.plays[:0]
	gen.visit(board.SpawnCol, board.SpawnRow, 0)
	return gen.cells[board.SpawnRow][board.SpawnCol].Allowed(0)
}

// Plays returns the resting placements found by the last Analyze, in the
// order the search reached them. The slice is reused by the next Analyze;
// callers that recurse must copy it.
func (gen *Generator) Plays() []move.Move {
	return gen.plays
}

// Piece is the piece of the last Analyze.
func (gen *Generator) Piece() piece.Piece {
	return gen.piece
}

// Allowed reports whether the last analyzed piece can reach the cell at
// visible row r, column c in rotation rot.
func (gen *Generator) Allowed(r, c, rot int) bool {
	if r < 0 || r >= board.Height || c < 0 || c >= board.Width {
		return false
	}
	return gen.cells[r][c].Allowed(rot)
}

// Cell returns the rotations reachable at visible row r, column c.
func (gen *Generator) Cell(r, c int) CellInfo {
	return gen.cells[r][c]
}

// fits tests the piece at box anchor (x, y). No footprint can be legal with
// its anchor outside the ten columns and twenty rows: every footprint covers
// the anchor's column and the anchor's row, so such a test would always hit
// a wall or the floor.
func (gen *Generator) fits(x, y, rot int, allowClip bool) bool {
	if x < 0 || x >= board.Width || y < 0 || y >= board.Height {
		return false
	}
	return gen.grid.Fits(gen.piece.Footprint(rot), x, y, allowClip)
}

func (gen *Generator) visit(x, y, rot int) {
	if !gen.fits(x, y, rot, true) {
		return
	}
	cell := &gen.cells[y][x]
	if cell.Allowed(rot) {
		return
	}
	cell.allow(rot)

	n := gen.piece.RotationCount()
	switch n {
	case 2:
		other := gen.piece.WrapRotation(rot + 1)
		if gen.fits(x, y, other, true) {
			cell.allow(other)
		}
	case 4:
		right := gen.piece.WrapRotation(rot + 1)
		left := gen.piece.WrapRotation(rot - 1)
		if !cell.Allowed(right) && gen.fits(x, y, right, true) {
			cell.allow(right)
		}
		if !cell.Allowed(left) && gen.fits(x, y, left, true) {
			cell.allow(left)
		}
		// The opposite rotation is only reachable through one of its
		// neighbours.
		opposite := gen.piece.WrapRotation(right + 1)
		if !cell.Allowed(opposite) && (cell.Allowed(right) || cell.Allowed(left)) &&
			gen.fits(x, y, opposite, true) {
			cell.allow(opposite)
		}
	}

	for r := 0; r < n; r++ {
		if !cell.Allowed(r) {
			continue
		}
		gen.visit(x-1, y, r)
		gen.visit(x+1, y, r)
		gen.visit(x, y+1, r)

		resting := y == board.Height-1 || !gen.cells[y+1][x].Allowed(r)
		if resting && !gen.recorded[y][x].Allowed(r) && gen.fits(x, y, r, false) {
			gen.recorded[y][x].allow(r)
			gen.plays = append(gen.plays, move.Move{Piece: gen.piece, Rot: r, Col: x, Row: y})
		}
	}
}
