package service

import (
	"math/rand"
)

// Rand is the randomness surface used by outcome selection, move generation
// and bot characters. Tests inject a seeded source to assert exact
// sequences.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// systemRand delegates to the package-level math/rand functions, which are
// safe for concurrent use.
type systemRand struct{}

func (systemRand) Intn(n int) int   { return rand.Intn(n) }
func (systemRand) Float64() float64 { return rand.Float64() }

// SystemRand returns the production randomness source.
func SystemRand() Rand {
	return systemRand{}
}

// NewSeededRand returns a deterministic source for tests. Not safe for
// concurrent use.
func NewSeededRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
