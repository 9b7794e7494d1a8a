// Package entropy provides the seeded random engine used for stochastic
// simulation events. Every draw is reproducible from the run seed; the
// engine never consults an external entropy source.
package entropy

import (
	"golang.org/x/exp/rand"
)

// Engine wraps a seeded PRNG with the draw helpers the simulation needs.
type Engine struct {
	*rand.Rand
}

// New creates an engine from a seed. The same seed always yields the same
// draw sequence.
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed))}
}

// PTrue returns true with probability p.
func (e *Engine) PTrue(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return e.Float64() < p
}

// WeightedIndex picks an index with probability proportional to its weight.
// Returns -1 if the weights sum to zero or the slice is empty.
func (e *Engine) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	target := e.Float64() * total
	sum := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		sum += w
		if sum > target {
			return i
		}
	}
	return len(weights) - 1
}
