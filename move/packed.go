package move

import "github.com/domino14/tetrisai/piece"

const (
	// layout of a packed move
	// 32       24       16       8
	// xxxxxxxx xxxxxxxx xxxxxxxx xxxxxxxx
	// ........ pppppprr cccccccc yyyyyyyy
	// p - piece
	// r - rotation
	// c - column
	// y - row

	pkColShift   = 8
	pkRotShift   = 16
	pkPieceShift = 18

	pkByteMask  = (1 << 8) - 1
	pkRotMask   = (1 << 2) - 1
	pkPieceMask = (1 << 6) - 1
)

// Pack encodes the move into an integer key. Column and row must fit in a
// byte.
func (m Move) Pack() uint32 {
	return uint32(m.Piece)<<pkPieceShift |
		uint32(m.Rot&pkRotMask)<<pkRotShift |
		uint32(m.Col&pkByteMask)<<pkColShift |
		uint32(m.Row&pkByteMask)
}

// Unpack decodes a key made by Pack.
func Unpack(key uint32) Move {
	return Move{
		Piece: piece.Piece((key >> pkPieceShift) & pkPieceMask),
		Rot:   int((key >> pkRotShift) & pkRotMask),
		Col:   int((key >> pkColShift) & pkByteMask),
		Row:   int(key & pkByteMask),
	}
}
