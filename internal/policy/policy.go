// Package policy defines the simulated node model and the per-archetype
// sampling targets every synthesis run resolves against.
//
// Both structures are immutable after startup: the CLI builds them once,
// validates them, and passes them by value into the synthesizers.
package policy

import (
	"github.com/pkg/errors"
)

// FractionRange is a closed admissible interval over a fraction of node
// memory capacity.
type FractionRange struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// ThreadRange is an inclusive thread-count sampling interval.
type ThreadRange struct {
	Lo int `yaml:"lo"`
	Hi int `yaml:"hi"`
}

// UtilRange is a closed fractional CPU utilization sampling interval.
type UtilRange struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// ResourcePolicy describes the simulated node and the node-sharing policy:
// how much of its memory a job's baseline and peak working sets may claim.
//
// The global fraction ranges are the hard floor/ceiling for every archetype;
// archetype targets only choose where inside them sampling centers.
type ResourcePolicy struct {
	// MemoryCapacityGiB is the node RAM ceiling in GiB.
	MemoryCapacityGiB float64 `yaml:"memoryCapacityGiB"`

	// CoreCount is the node core count. Sampled thread counts stay strictly
	// below it.
	CoreCount int `yaml:"coreCount"`

	// BaselineFractionRange bounds the sampled baseline alpha.
	BaselineFractionRange FractionRange `yaml:"baselineFractionRange"`

	// PeakFractionRange bounds the sampled peak alpha. Must sit strictly
	// above the baseline range so Delta = Peak - Baseline is positive for
	// every admissible draw.
	PeakFractionRange FractionRange `yaml:"peakFractionRange"`
}

// Default returns the standard 62 GiB / 32 core node-sharing policy.
func Default() ResourcePolicy {
	return ResourcePolicy{
		MemoryCapacityGiB:     62.0,
		CoreCount:             32,
		BaselineFractionRange: FractionRange{Lo: 0.25, Hi: 0.45},
		PeakFractionRange:     FractionRange{Lo: 0.55, Hi: 0.75},
	}
}

// Validate checks the ordering invariant
// 0 < base.lo < base.hi < peak.lo < peak.hi <= 1 and the node dimensions.
func (p ResourcePolicy) Validate() error {
	if p.MemoryCapacityGiB <= 0 {
		return errors.Errorf("policy: memory capacity must be positive, got %.1f", p.MemoryCapacityGiB)
	}
	if p.CoreCount < 2 {
		return errors.Errorf("policy: core count must be at least 2, got %d", p.CoreCount)
	}
	b, pk := p.BaselineFractionRange, p.PeakFractionRange
	switch {
	case b.Lo <= 0:
		return errors.Errorf("policy: baseline fraction lo must be > 0, got %.2f", b.Lo)
	case b.Hi <= b.Lo:
		return errors.Errorf("policy: baseline fraction range [%.2f, %.2f] is not increasing", b.Lo, b.Hi)
	case pk.Lo <= b.Hi:
		return errors.Errorf("policy: peak fraction lo %.2f must exceed baseline hi %.2f", pk.Lo, b.Hi)
	case pk.Hi <= pk.Lo:
		return errors.Errorf("policy: peak fraction range [%.2f, %.2f] is not increasing", pk.Lo, pk.Hi)
	case pk.Hi > 1:
		return errors.Errorf("policy: peak fraction hi must be <= 1, got %.2f", pk.Hi)
	}
	return nil
}
