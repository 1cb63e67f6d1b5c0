package piece

import (
	"math/bits"
	"testing"

	"github.com/matryer/is"
)

func TestFootprintsHaveFourCells(t *testing.T) {
	is := is.New(t)
	for _, p := range All {
		for rot := 0; rot < p.RotationCount(); rot++ {
			is.Equal(bits.OnesCount64(p.Footprint(rot).Window()), 4) // four cells
		}
	}
}

func TestFootprintsUseThirdBoxRow(t *testing.T) {
	// Every rotation covers box row 2; resting rows are computed from it.
	is := is.New(t)
	for _, p := range All {
		for rot := 0; rot < p.RotationCount(); rot++ {
			is.True(p.Footprint(rot)[2] != 0)
		}
	}
}

func TestFromLetter(t *testing.T) {
	is := is.New(t)
	for _, p := range All {
		got, err := FromLetter(p.String())
		is.NoErr(err)
		is.Equal(got, p)
	}
	got, err := FromLetter("t")
	is.NoErr(err)
	is.Equal(got, T)

	_, err = FromLetter("X")
	is.True(err != nil)
	_, err = FromLetter("IO")
	is.True(err != nil)
}

func TestRotationCounts(t *testing.T) {
	is := is.New(t)
	is.Equal(O.RotationCount(), 1)
	is.Equal(I.RotationCount(), 2)
	is.Equal(S.RotationCount(), 2)
	is.Equal(Z.RotationCount(), 2)
	is.Equal(J.RotationCount(), 4)
	is.Equal(L.RotationCount(), 4)
	is.Equal(T.RotationCount(), 4)
	is.Equal(J.WrapRotation(-1), 3)
	is.Equal(I.WrapRotation(3), 1)
}

func TestInvalidRotationPanics(t *testing.T) {
	is := is.New(t)
	defer func() {
		is.True(recover() != nil)
	}()
	O.Footprint(1)
}

func TestFootprintString(t *testing.T) {
	is := is.New(t)
	is.Equal(T.Footprint(0).String(), "....\n....\n.###\n..#.\n")
}
