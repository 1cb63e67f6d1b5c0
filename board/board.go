// Package board holds the packed playfield. Each row is a 16-bit mask with
// permanent wall bits on both sides, so a piece footprint can be tested
// against four rows at once with a single AND.
//
//	 0: xxx..........xxx < invisible
//	 1: xxx..........xxx < invisible
//	 2: xxx..........xxx < visible row 0
//	          ...
//	21: xxx..........xxx < visible row 19
//	22: xxxxxxxxxxxxxxxx < floor
//	23: xxxxxxxxxxxxxxxx < floor
package board

import (
	"fmt"
	"math/bits"

	"github.com/domino14/tetrisai/piece"
)

const (
	Width    = 10
	Height   = 20
	NumRows  = 24
	FirstRow = 2
	LastRow  = 21
	WallSize = 3

	// SpawnRow and SpawnCol are where every piece enters the board.
	SpawnRow = 0
	SpawnCol = 5
)

const (
	EmptyRow uint16 = 0b1110000000000111
	FullRow  uint16 = 0xffff
	// PlayMask covers the ten playable columns of a row.
	PlayMask uint16 = ^EmptyRow

	wallWindow uint64 = 0xe007e007e007e007
)

// Grid is a packed board. It is a value type; two grids are equal when all
// their rows are equal.
type Grid struct {
	rows [NumRows]uint16
}

// NewGrid returns an empty board.
func NewGrid() Grid {
	var g Grid
	for i := 0; i <= LastRow; i++ {
		g.rows[i] = EmptyRow
	}
	g.rows[LastRow+1] = FullRow
	g.rows[LastRow+2] = FullRow
	return g
}

func colBit(c int) uint16 {
	return 1 << (16 - (c + WallSize) - 1)
}

// Set fills the cell at visible row r, column c.
func (g *Grid) Set(r, c int) {
	g.rows[r+FirstRow] |= colBit(c)
}

// Clear empties the cell at visible row r, column c.
func (g *Grid) Clear(r, c int) {
	g.rows[r+FirstRow] &^= colBit(c)
}

// At returns whether the cell at visible row r, column c is filled.
func (g Grid) At(r, c int) bool {
	return g.rows[r+FirstRow]&colBit(c) != 0
}

// Row returns the raw mask of visible row r, walls included.
func (g Grid) Row(r int) uint16 {
	return g.rows[r+FirstRow]
}

// RowOccupied returns whether visible row r has any filled cell.
func (g Grid) RowOccupied(r int) bool {
	return g.Row(r)&PlayMask != 0
}

func checkWindow(row int) {
	if row < 0 || row > NumRows-4 {
		panic(fmt.Sprintf("window row %d out of range [0, %d]", row, NumRows-4))
	}
}

// Window returns the four raw rows starting at raw row `row` packed into one
// integer, the first row in the lowest 16 bits.
func (g Grid) Window(row int) uint64 {
	checkWindow(row)
	return uint64(g.rows[row]) | uint64(g.rows[row+1])<<16 |
		uint64(g.rows[row+2])<<32 | uint64(g.rows[row+3])<<48
}

// SetWindow is the inverse of Window.
func (g *Grid) SetWindow(row int, v uint64) {
	checkWindow(row)
	g.rows[row] = uint16(v)
	g.rows[row+1] = uint16(v >> 16)
	g.rows[row+2] = uint16(v >> 32)
	g.rows[row+3] = uint16(v >> 48)
}

// placed shifts the footprint into board columns. x is the board column
// under the footprint's third box column; the extra 1 is the lead-in between
// the box's first column and the left wall.
func placed(fp piece.Footprint, x int) uint64 {
	if x < -1 {
		panic(fmt.Sprintf("column %d out of range", x))
	}
	return fp.Window() >> uint(x+1)
}

// clipMask covers the last two rows of a window. Shifted by 16 bits per
// window row, it is empty from row 2 on.
const clipMask uint64 = 0xffffffff00000000

// Fits returns whether the footprint can sit with its box at (x, y) without
// overlapping filled cells or walls. y is the raw row of the box's first row,
// which makes it the visible row of the box's third row. Unless allowClip is
// set, a box starting at raw row 0 may not use its last two rows and one
// starting at raw row 1 may not use its last row.
func (g Grid) Fits(fp piece.Footprint, x, y int, allowClip bool) bool {
	w := g.Window(y)
	if !allowClip && y < 3 {
		w |= clipMask << (16 * uint(y))
	}
	return placed(fp, x)&w == 0
}

// Imprint ORs the footprint into the grid. It panics if any footprint cell
// is already filled, since Erase could not undo such an imprint.
func (g *Grid) Imprint(fp piece.Footprint, x, y int) {
	w := g.Window(y)
	p := placed(fp, x)
	if w&p != 0 {
		panic(fmt.Sprintf("imprint at (%d, %d) overlaps filled cells", x, y))
	}
	g.SetWindow(y, w|p)
}

// Erase removes the footprint from the grid, leaving wall bits untouched.
func (g *Grid) Erase(fp piece.Footprint, x, y int) {
	w := g.Window(y)
	w &= ^placed(fp, x) | wallWindow
	g.SetWindow(y, w)
}

// Eliminate removes every completely filled visible row, shifting the rows
// above it down and backfilling the top with empty rows. It returns the new
// grid and the number of removed rows.
func Eliminate(g Grid) (Grid, int) {
	res := g
	dest := LastRow
	lines := 0
	for r := LastRow; r >= FirstRow; r-- {
		if g.rows[r] == FullRow {
			lines++
			continue
		}
		res.rows[dest] = g.rows[r]
		dest--
	}
	for ; dest >= FirstRow; dest-- {
		res.rows[dest] = EmptyRow
	}
	return res, lines
}

// FilledCells counts the filled playable cells.
func (g Grid) FilledCells() int {
	n := 0
	for r := FirstRow; r <= LastRow; r++ {
		n += bits.OnesCount16(g.rows[r] & PlayMask)
	}
	return n
}
