package game

import (
	"encoding/binary"
	"fmt"
	"math"

	"lukechampine.com/frand"

	"github.com/domino14/tetrisai/piece"
)

// PieceSource draws pieces for a game.
type PieceSource interface {
	Next() piece.Piece
}

// RandomSource draws each piece uniformly and independently.
type RandomSource struct {
	rng  *frand.RNG
	seed uint64
}

// NewRandomSource makes a reproducible source from seed. A zero seed picks a
// random one; Seed reports it.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &RandomSource{
		rng:  frand.NewCustom(key[:], 1024, 12),
		seed: seed,
	}
}

func (r *RandomSource) Next() piece.Piece {
	return piece.Piece(r.rng.Intn(piece.NumPieces))
}

func (r *RandomSource) Seed() uint64 {
	return r.seed
}

// SequenceSource repeats a fixed list of pieces.
type SequenceSource struct {
	pieces []piece.Piece
	idx    int
}

func NewSequenceSource(pieces ...piece.Piece) *SequenceSource {
	if len(pieces) == 0 {
		panic("empty piece sequence")
	}
	return &SequenceSource{pieces: pieces}
}

// ParseSequence reads a string of piece letters such as "IOTJ".
func ParseSequence(s string) (*SequenceSource, error) {
	if s == "" {
		return nil, fmt.Errorf("empty piece sequence")
	}
	pieces := make([]piece.Piece, 0, len(s))
	for i := range s {
		p, err := piece.FromLetter(s[i : i+1])
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", s, err)
		}
		pieces = append(pieces, p)
	}
	return NewSequenceSource(pieces...), nil
}

func (s *SequenceSource) Next() piece.Piece {
	p := s.pieces[s.idx]
	s.idx = (s.idx + 1) % len(s.pieces)
	return p
}
