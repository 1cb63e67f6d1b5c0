package board

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

const (
	filledMarker = '#'
	emptyMarker  = '.'
)

// Hash fingerprints the position. Equal grids hash equally.
func (g Grid) Hash() uint64 {
	var buf [NumRows * 2]byte
	for i, r := range g.rows {
		binary.LittleEndian.PutUint16(buf[i*2:], r)
	}
	return xxhash.Sum64(buf[:])
}

// ToDisplayText renders the visible rows, top row first. Cells for which
// overlay returns true are drawn as the falling piece.
func (g Grid) ToDisplayText(overlay func(r, c int) bool) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < Width; c++ {
		sb.WriteString(fmt.Sprintf("%d ", c))
	}
	sb.WriteString("\n   " + strings.Repeat("-", Width*2) + "\n")
	for r := 0; r < Height; r++ {
		sb.WriteString(fmt.Sprintf("%2d|", r))
		for c := 0; c < Width; c++ {
			switch {
			case overlay != nil && overlay(r, c):
				sb.WriteString("@ ")
			case g.At(r, c):
				sb.WriteString("# ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", Width*2) + "\n")
	return sb.String()
}

// ParseRows builds a grid from text rows made of '#' (filled) and '.'
// (empty), one row per string, ten cells each. The last string is the bottom
// visible row; fewer than Height strings leave the rows above empty.
func ParseRows(lines []string) (Grid, error) {
	g := NewGrid()
	if len(lines) > Height {
		return g, fmt.Errorf("got %d rows, the board has %d", len(lines), Height)
	}
	offset := Height - len(lines)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != Width {
			return g, fmt.Errorf("row %d: %q has %d cells, need %d", i, line, len(line), Width)
		}
		for c, ch := range line {
			switch ch {
			case filledMarker:
				g.Set(offset+i, c)
			case emptyMarker:
			default:
				return g, fmt.Errorf("row %d: unexpected character %q", i, ch)
			}
		}
	}
	return g, nil
}

// String renders the visible rows in the format ParseRows reads.
func (g Grid) String() string {
	var sb strings.Builder
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			if g.At(r, c) {
				sb.WriteByte(filledMarker)
			} else {
				sb.WriteByte(emptyMarker)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
