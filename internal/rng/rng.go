// Package rng provides the seeded pseudo-random generator used for every
// chance-dependent operation in the game: card generation and deck shuffles.
// The generator is a 32-bit linear congruential generator so that a given
// seed always yields the same sequence, which is what makes cards
// reproducible and shuffles testable.
package rng

import (
	"slices"
	"sort"
)

// Numerical Recipes LCG constants.
const (
	multiplier = 1664525
	increment  = 1013904223
)

// RNG is a deterministic pseudo-random source. The zero value is not usable;
// construct with New.
type RNG struct {
	state uint32
}

// New returns a generator seeded with the given value. A zero seed is
// coerced to 1, so distinct seeds 0 and 1 produce the same sequence.
func New(seed uint32) *RNG {
	if seed == 0 {
		seed = 1
	}
	return &RNG{state: seed}
}

// Float64 advances the generator and returns the next value in [0, 1).
func (r *RNG) Float64() float64 {
	r.state = multiplier*r.state + increment
	return float64(r.state) / (1 << 32)
}

// intn returns an integer in [0, n) from the generator stream.
func (r *RNG) intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Shuffle returns a Fisher-Yates permutation of src consuming the generator
// stream. The input slice is not mutated.
func (r *RNG) Shuffle(src []int) []int {
	out := slices.Clone(src)
	for i := len(out) - 1; i > 0; i-- {
		j := r.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SampleUnique draws count distinct integers uniformly from [min, max] and
// returns them in ascending order. It shuffles the full range and truncates,
// so the caller must ensure count <= max-min+1; every call site in this
// repository uses fixed, valid ranges.
func (r *RNG) SampleUnique(min, max, count int) []int {
	pool := make([]int, 0, max-min+1)
	for n := min; n <= max; n++ {
		pool = append(pool, n)
	}
	s := r.Shuffle(pool)[:count]
	sort.Ints(s)
	return s
}
