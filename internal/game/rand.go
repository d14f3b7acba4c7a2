package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// WindSource yields uniform floats in [0, 1) for wind rolls. *math/rand.Rand
// satisfies it; tests inject fixed sequences instead.
type WindSource interface {
	Float64() float64
}

// NewWindSource returns a pseudo-random source seeded from crypto/rand.
func NewWindSource() WindSource {
	return rand.New(rand.NewSource(newSeed()))
}

// newSeed draws a random seed from crypto/rand. A failed read falls back to
// a fixed seed rather than aborting; wind quality is not worth crashing for.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
