package move

import (
	"fmt"

	"github.com/domino14/tetrisai/piece"
)

// Move is a placement of a piece: its rotation and the board cell under the
// third row and third column of its 4x4 box. Row is a visible row, so a
// piece resting on the floor with its lowest cells in box row 2 has Row 19.
// Moves along an interpolated path are intermediate states of the same
// falling piece.
type Move struct {
	Piece piece.Piece
	Rot   int
	Col   int
	Row   int
}

// Footprint returns the packed shape this move places.
func (m Move) Footprint() piece.Footprint {
	return m.Piece.Footprint(m.Rot)
}

// String provides a string just for debugging purposes.
func (m Move) String() string {
	return fmt.Sprintf("<piece: %v rot: %d col: %d row: %d>", m.Piece, m.Rot, m.Col, m.Row)
}

// ShortDescription is the compact form used by the shell and the game logs,
// e.g. "T1@4,18".
func (m Move) ShortDescription() string {
	return fmt.Sprintf("%v%d@%d,%d", m.Piece, m.Rot, m.Col, m.Row)
}

// FromShortDescription parses the output of ShortDescription.
func FromShortDescription(s string) (Move, error) {
	var m Move
	if len(s) < 2 {
		return m, fmt.Errorf("move %q is too short", s)
	}
	p, err := piece.FromLetter(s[:1])
	if err != nil {
		return m, err
	}
	var rot, col, row int
	n, err := fmt.Sscanf(s[1:], "%d@%d,%d", &rot, &col, &row)
	if err != nil || n != 3 {
		return m, fmt.Errorf("cannot parse move %q", s)
	}
	if rot < 0 || rot >= p.RotationCount() {
		return m, fmt.Errorf("rotation %d out of range for piece %v", rot, p)
	}
	return Move{Piece: p, Rot: rot, Col: col, Row: row}, nil
}

// Equals compares two placements.
func (m Move) Equals(o Move) bool {
	return m == o
}
