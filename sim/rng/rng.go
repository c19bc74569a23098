// Package rng provides the source of randomness that the scheduler and the
// models draw from.
//
// The simulator never owns a random source. A Source is injected into every
// operation that needs randomness, so that a seeded Source replays the same
// simulation.
package rng

import (
	"math/rand/v2"
)

// A Source supplies uniform and weighted random sampling.
type Source interface {
	// Uniform returns a value drawn uniformly from [lo, hi). The caller
	// guarantees that lo < hi.
	Uniform(lo, hi uint64) uint64

	// Weighted returns an index into weights drawn with a probability
	// proportional to the weight at that index.
	Weighted(weights []int) (int, error)
}

// Rand is the default Source. It is backed by a PCG generator so that a seed
// fully determines the sequence of draws.
type Rand struct {
	seed uint64
	r    *rand.Rand
}

// New creates a Rand seeded with the given seed.
func New(seed uint64) *Rand {
	r := new(Rand)
	r.seed = seed
	r.r = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return r
}

// Seed returns the seed the Rand was created with.
func (r *Rand) Seed() uint64 {
	return r.seed
}

// Uniform returns a value drawn uniformly from [lo, hi).
func (r *Rand) Uniform(lo, hi uint64) uint64 {
	if hi <= lo {
		panic("rng: empty uniform range")
	}

	return lo + r.r.Uint64N(hi-lo)
}

// Weighted returns an index drawn in proportion to weights.
func (r *Rand) Weighted(weights []int) (int, error) {
	dist, err := NewWeightedIndex(weights)
	if err != nil {
		return 0, err
	}

	return dist.Sample(r), nil
}

// Float64 returns a value drawn uniformly from [0, 1).
func (r *Rand) Float64() float64 {
	return r.r.Float64()
}
