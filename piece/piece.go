// Package piece contains the seven tetromino identities and their packed
// 4x4 footprints for every rotation.
package piece

import (
	"fmt"
	"strings"
)

// Piece is one of the seven tetrominoes.
type Piece uint8

const (
	J Piece = iota
	L
	S
	Z
	T
	I
	O

	NumPieces = 7
)

// MaxRotations is the largest rotation count of any piece.
const MaxRotations = 4

// Unknown stands for a piece that has not been drawn yet.
const Unknown Piece = NumPieces

const letters = "JLSZTIO"

// All lists every piece, in enum order.
var All = [NumPieces]Piece{J, L, S, Z, T, I, O}

var rotationCounts = [NumPieces]int{4, 4, 2, 2, 4, 2, 1}

// Valid returns whether p names an actual piece.
func (p Piece) Valid() bool {
	return p < NumPieces
}

func (p Piece) mustBeValid() {
	if !p.Valid() {
		panic(fmt.Sprintf("invalid piece %d", uint8(p)))
	}
}

// RotationCount is the number of distinct rotations of the piece. O has 1,
// I, S and Z have 2, and J, L and T have 4.
func (p Piece) RotationCount() int {
	p.mustBeValid()
	return rotationCounts[p]
}

// Letter returns the single-letter name of the piece.
func (p Piece) Letter() byte {
	p.mustBeValid()
	return letters[p]
}

func (p Piece) String() string {
	if p == Unknown {
		return "?"
	}
	if !p.Valid() {
		return fmt.Sprintf("Piece(%d)", uint8(p))
	}
	return string(letters[p])
}

// FromLetter parses a piece letter, case-insensitively.
func FromLetter(s string) (Piece, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("piece name must be a single letter, got %q", s)
	}
	i := strings.IndexByte(letters, strings.ToUpper(s)[0])
	if i < 0 {
		return 0, fmt.Errorf("%q is not a piece; valid pieces are %s", s, letters)
	}
	return Piece(i), nil
}

// WrapRotation normalizes rot into [0, RotationCount()).
func (p Piece) WrapRotation(rot int) int {
	n := p.RotationCount()
	return ((rot % n) + n) % n
}
