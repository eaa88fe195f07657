package engine

import (
	"math"
	"math/rand"
)

// Source supplies uniformly distributed values in [0, 1).
// *rand.Rand satisfies it; tests substitute scripted sequences.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded math/rand source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [lo, hi). An empty or inverted range yields its midpoint.
func uniform(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + src.Float64()*(hi-lo)
}

// uniformInt draws an integer from the closed range [lo, hi].
func uniformInt(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(math.Floor(src.Float64()*float64(hi-lo+1)))
	if n > hi {
		n = hi
	}
	return n
}

// Uniform is the exported form of uniform for callers sharing the engine's source.
func Uniform(src Source, lo, hi float64) float64 {
	return uniform(src, lo, hi)
}
