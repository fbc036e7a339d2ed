// Package sampler provides the bounded random primitives every archetype
// synthesizer draws from.
//
// Determinism constraints:
//   - All randomness flows through one explicit Sampler instance seeded once.
//   - Callers must draw in a fixed, documented order; every draw advances the
//     shared generator state, so reordering changes all subsequent output.
//   - No package-level generator and no ambient seeding.
package sampler

import (
	"math"
	"math/rand"
)

// Sampler wraps a seeded pseudorandom source behind bounded draw operations.
//
// A Sampler is not safe for concurrent use; synthesis is single-threaded by
// design and shares one instance across all archetype runs.
type Sampler struct {
	rng *rand.Rand
}

// New returns a Sampler seeded with the given value. Equal seeds produce
// identical draw sequences across runs and platforms.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Lognormal draws a positive value whose median approximates mean and whose
// spread scales with sigma, clamped into [lo, hi].
//
// The underlying normal is parameterized as mu = ln(mean) - s²/2 with
// s = ln(sigma). A sigma ≤ 1.0 collapses s to a near-zero constant, making
// the draw effectively deterministic at mean rather than failing.
func (s *Sampler) Lognormal(mean, sigma, lo, hi float64) float64 {
	sd := 1e-6
	if sigma > 1.0 {
		sd = math.Log(sigma)
	}
	mu := math.Log(math.Max(mean, 1e-9)) - 0.5*sd*sd
	val := math.Exp(s.rng.NormFloat64()*sd + mu)
	return Clamp(val, lo, hi)
}

// UniformCentered draws uniformly from [center-band, center+band], clamped
// into [lo, hi]. Used for fractional (alpha) parameters.
func (s *Sampler) UniformCentered(center, band, lo, hi float64) float64 {
	return Clamp(s.UniformBetween(center-band, center+band), lo, hi)
}

// UniformBetween draws uniformly from [lo, hi).
func (s *Sampler) UniformBetween(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// IntBetween draws a uniform integer from the inclusive range [lo, hi].
func (s *Sampler) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Clamp limits x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
