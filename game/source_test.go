package game

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetrisai/piece"
)

func TestRandomSourceSeeded(t *testing.T) {
	is := is.New(t)
	a := NewRandomSource(1234)
	b := NewRandomSource(1234)
	counts := map[piece.Piece]int{}
	for i := 0; i < 7000; i++ {
		p := a.Next()
		is.Equal(p, b.Next())
		is.True(p.Valid())
		counts[p]++
	}
	is.Equal(len(counts), piece.NumPieces)
	is.Equal(a.Seed(), uint64(1234))
}

func TestRandomSourceUnseeded(t *testing.T) {
	is := is.New(t)
	s := NewRandomSource(0)
	is.True(s.Seed() != 0)
	is.True(s.Next().Valid())
}

func TestParseSequence(t *testing.T) {
	is := is.New(t)
	s, err := ParseSequence("ioT")
	is.NoErr(err)
	is.Equal(s.Next(), piece.I)
	is.Equal(s.Next(), piece.O)
	is.Equal(s.Next(), piece.T)
	is.Equal(s.Next(), piece.I)
	_, err = ParseSequence("IXO")
	is.True(err != nil)
	_, err = ParseSequence("")
	is.True(err != nil)
}
