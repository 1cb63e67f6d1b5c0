package piece

import (
	"fmt"
	"strings"
)

// Footprint is the packed 4x4 bounding box of one rotation of a piece. Each
// row holds its four cells in bits 15..12, box column 0 being bit 15, which
// is the same alignment a board row uses, so a footprint can be shifted
// straight into board coordinates.
type Footprint [4]uint16

// Window returns the footprint's four rows as one integer, row 0 in the
// lowest 16 bits.
func (f Footprint) Window() uint64 {
	return uint64(f[0]) | uint64(f[1])<<16 | uint64(f[2])<<32 | uint64(f[3])<<48
}

// At returns whether the box cell at row r, column c is filled.
func (f Footprint) At(r, c int) bool {
	return f[r]>>(15-c)&1 == 1
}

func (f Footprint) String() string {
	var sb strings.Builder
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if f.At(r, c) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func rows(a, b, c, d uint16) Footprint {
	return Footprint{a << 12, b << 12, c << 12, d << 12}
}

var footprints [NumPieces][MaxRotations]Footprint

func init() {
	footprints[J] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b0111, 0b0001),
		rows(0b0000, 0b0010, 0b0010, 0b0110),
		rows(0b0000, 0b0100, 0b0111, 0b0000),
		rows(0b0000, 0b0011, 0b0010, 0b0010),
	}
	footprints[L] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b0111, 0b0100),
		rows(0b0000, 0b0110, 0b0010, 0b0010),
		rows(0b0000, 0b0001, 0b0111, 0b0000),
		rows(0b0000, 0b0010, 0b0010, 0b0011),
	}
	footprints[S] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b0011, 0b0110),
		rows(0b0000, 0b0010, 0b0011, 0b0001),
	}
	footprints[Z] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b0110, 0b0011),
		rows(0b0000, 0b0001, 0b0011, 0b0010),
	}
	footprints[T] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b0111, 0b0010),
		rows(0b0000, 0b0010, 0b0110, 0b0010),
		rows(0b0000, 0b0010, 0b0111, 0b0000),
		rows(0b0000, 0b0010, 0b0011, 0b0010),
	}
	footprints[I] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b1111, 0b0000),
		rows(0b0010, 0b0010, 0b0010, 0b0010),
	}
	footprints[O] = [MaxRotations]Footprint{
		rows(0b0000, 0b0000, 0b0110, 0b0110),
	}
}

// Footprint returns the packed shape of piece p at rotation rot. It panics
// if rot is not below p.RotationCount().
func (p Piece) Footprint(rot int) Footprint {
	if rot < 0 || rot >= p.RotationCount() {
		panic(fmt.Sprintf("rotation %d out of range for piece %v", rot, p))
	}
	return footprints[p][rot]
}
