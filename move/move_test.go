package move

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetrisai/piece"
)

type descTestStruct struct {
	m      Move
	output string
}

var descTests = []descTestStruct{
	{Move{piece.T, 1, 4, 18}, "T1@4,18"},
	{Move{piece.O, 0, 9, 18}, "O0@9,18"},
	{Move{piece.I, 1, 1, 0}, "I1@1,0"},
	{Move{piece.J, 3, 5, 19}, "J3@5,19"},
}

func TestShortDescription(t *testing.T) {
	for _, tc := range descTests {
		calc := tc.m.ShortDescription()
		if calc != tc.output {
			t.Errorf("For %v got %v, expected %v", tc.m, calc, tc.output)
		}
	}
}

func TestFromShortDescription(t *testing.T) {
	is := is.New(t)
	for _, tc := range descTests {
		m, err := FromShortDescription(tc.output)
		is.NoErr(err)
		is.True(m.Equals(tc.m))
	}
	_, err := FromShortDescription("O1@4,18")
	is.True(err != nil) // O has a single rotation
	_, err = FromShortDescription("Q0@4,18")
	is.True(err != nil)
	_, err = FromShortDescription("T0")
	is.True(err != nil)
}

func TestPack(t *testing.T) {
	is := is.New(t)
	m := Move{Piece: piece.L, Rot: 2, Col: 7, Row: 13}
	is.Equal(m.Pack(), uint32(piece.L)<<18|2<<16|7<<8|13)
	for _, p := range piece.All {
		for rot := 0; rot < p.RotationCount(); rot++ {
			m := Move{Piece: p, Rot: rot, Col: 9, Row: 19}
			is.Equal(Unpack(m.Pack()), m)
		}
	}
}
