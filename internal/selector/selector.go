// Package selector draws items at random, optionally weighted.
package selector

import (
	"math/rand"
	"sort"
)

const (
	MinWeight = 1
	MaxWeight = 20
)

// Rand is the randomness source consumed by the selector.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// Default returns a source backed by the package-level math/rand generator,
// which is safe for concurrent use.
func Default() Rand {
	return globalRand{}
}

// Pick returns one item with probability weight(item)/sum(weights). Weights
// below MinWeight count as MinWeight. It reports false for empty input.
func Pick[T any](items []T, weight func(T) int, rng Rand) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}

	cum := make([]int, len(items))
	total := 0
	for i, item := range items {
		w := weight(item)
		if w < MinWeight {
			w = MinWeight
		}
		total += w
		cum[i] = total
	}

	r := rng.Intn(total)
	// first index whose cumulative weight exceeds r
	return items[sort.SearchInts(cum, r+1)], true
}

// Uniform returns one item with equal probability.
func Uniform[T any](items []T, rng Rand) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[rng.Intn(len(items))], true
}
