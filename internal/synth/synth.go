// Package synth builds per-archetype phase sequences.
//
// Each archetype strategy consumes the node policy, its catalog target, and
// the shared sampler, and emits an ordered phase sequence whose running
// cumulative memory stays within [0, peak] by construction. There is no
// runtime envelope checking and no error path: every numeric input is
// produced in-range.
package synth

import (
	"math"

	"github.com/pkg/errors"

	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
)

// Archetype identifies one workload shape and selects its synthesis strategy.
type Archetype string

const (
	CFD       Archetype = "CFD"
	MD        Archetype = "MD"
	Analytics Archetype = "ANALYTICS"
	FFT       Archetype = "FFT"
	DL        Archetype = "DL"
)

// Order is the fixed synthesis order. It is part of the determinism
// contract: every draw advances the shared sampler state, so running the
// archetypes in any other order changes every subsequent job.
func Order() []Archetype {
	return []Archetype{CFD, MD, Analytics, FFT, DL}
}

// JobDescriptor is one synthesized workload: an ordered phase sequence plus
// the annotation emitted into the generated script header. Immutable after
// construction.
type JobDescriptor struct {
	Name       string
	Case       string
	Phases     []phase.Phase
	Annotation string

	// Envelope is the sampled memory envelope the phase sequence was built
	// against. Retained for observability; the emitter does not render it.
	Envelope SampledEnvelope
}

type strategy func(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, name string) JobDescriptor

func strategyFor(a Archetype) (strategy, bool) {
	switch a {
	case CFD:
		return synthesizeCFD, true
	case MD:
		return synthesizeMD, true
	case Analytics:
		return synthesizeAnalytics, true
	case FFT:
		return synthesizeFFT, true
	case DL:
		return synthesizeDL, true
	default:
		return nil, false
	}
}

// Synthesize runs the strategy for the given archetype. The only failure is
// an archetype without a strategy or catalog entry; sampling and phase
// construction themselves cannot fail.
func Synthesize(a Archetype, p policy.ResourcePolicy, cat policy.Catalog, s *sampler.Sampler, name string) (JobDescriptor, error) {
	fn, ok := strategyFor(a)
	if !ok {
		return JobDescriptor{}, errors.Errorf("synth: no strategy for archetype %q", a)
	}
	target, ok := cat.Target(string(a))
	if !ok {
		return JobDescriptor{}, errors.Errorf("synth: catalog has no target for archetype %q", a)
	}
	return fn(p, target, s, name), nil
}

// SampledEnvelope is the per-run sampled memory envelope. Baseline and peak
// are the sampled alpha fractions resolved against node capacity; cumulative
// memory must stay within [0, PeakGiB] for the whole sequence.
type SampledEnvelope struct {
	AlphaBase   float64
	AlphaPeak   float64
	BaselineGiB float64
	PeakGiB     float64
	DeltaGiB    float64
}

// sampleEnvelope draws alpha fractions around the target centers (±band) and
// clamps them to the policy's global ranges, which remain the hard bounds.
func sampleEnvelope(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, baseBand, peakBand float64) SampledEnvelope {
	aBase := s.UniformCentered(t.BaselineFractionCenter, baseBand, p.BaselineFractionRange.Lo, p.BaselineFractionRange.Hi)
	aPeak := s.UniformCentered(t.PeakFractionCenter, peakBand, p.PeakFractionRange.Lo, p.PeakFractionRange.Hi)
	base := aBase * p.MemoryCapacityGiB
	peak := aPeak * p.MemoryCapacityGiB
	return SampledEnvelope{
		AlphaBase:   aBase,
		AlphaPeak:   aPeak,
		BaselineGiB: base,
		PeakGiB:     peak,
		DeltaGiB:    peak - base,
	}
}

// Shared lognormal duration bands, in seconds. Compute phases center on six
// minutes, waits on 45 seconds; archetypes override where their staging
// calls for it.
const (
	computeMeanSec = 360.0
	computeSigma   = 1.5
	computeMinSec  = 120.0
	computeMaxSec  = 600.0
	waitMeanSec    = 45.0
	waitSigma      = 1.6
	waitMinSec     = 10.0
	waitMaxSec     = 120.0
)

// durationSec draws a lognormal duration and truncates to whole seconds.
func durationSec(s *sampler.Sampler, mean, sigma, lo, hi float64) int {
	return int(s.Lognormal(mean, sigma, lo, hi))
}

// floorGiB truncates to one decimal. Positive deltas are floored rather than
// half-rounded so the emitted value can never exceed the true headroom.
func floorGiB(gib float64) float64 {
	return math.Floor(gib*10+1e-9) / 10
}

// roundGiB rounds to one decimal, for quantities that are not headroom-bound
// (absolute sets and releases).
func roundGiB(gib float64) float64 {
	return math.Round(gib*10) / 10
}

// cappedGrowth sizes a positive delta so current + delta never exceeds peak,
// floored to the emitted precision.
func cappedGrowth(targetGiB, currentGiB, peakGiB float64) float64 {
	return floorGiB(math.Max(math.Min(targetGiB, peakGiB-currentGiB), 0))
}

// drawDownThreads reduces a thread count for a later CPU phase. Counts never
// rise above the sampled baseline and never fall below the floor.
func drawDownThreads(baseline, by, floor int) int {
	if floor < policy.MinThreads {
		floor = policy.MinThreads
	}
	th := baseline - by
	if th < floor {
		return floor
	}
	return th
}
