package policy

import (
	"github.com/pkg/errors"
)

// ArchetypeTarget is the declarative sampling target for one workload
// archetype. Alpha centers are sampled around (±band) and then clamped to the
// global policy ranges, which remain the hard bounds.
type ArchetypeTarget struct {
	// Name is the archetype identifier (CFD, MD, ANALYTICS, FFT, DL).
	Name string `yaml:"name"`

	// BaselineFractionCenter is the alpha_base sampling center.
	BaselineFractionCenter float64 `yaml:"baselineFractionCenter"`

	// PeakFractionCenter is the alpha_peak sampling center.
	PeakFractionCenter float64 `yaml:"peakFractionCenter"`

	// Threads is the inclusive thread-count sampling range. Every admissible
	// value is >= MinThreads and strictly below the policy core count.
	Threads ThreadRange `yaml:"threads"`

	// Util is the fractional CPU utilization sampling range.
	Util UtilRange `yaml:"util"`

	// Rationale is the fixed human-readable explanation emitted into each
	// generated script's annotation.
	Rationale string `yaml:"rationale"`
}

// MinThreads is the floor for every sampled or drawn-down thread count.
const MinThreads = 8

// Catalog is the ordered set of archetype targets. Order matters: it is the
// fixed synthesis order and therefore part of the determinism contract.
type Catalog []ArchetypeTarget

// DefaultCatalog returns the built-in targets for the five archetypes.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:                   "CFD",
			BaselineFractionCenter: 0.35,
			PeakFractionCenter:     0.63,
			Threads:                ThreadRange{Lo: 24, Hi: 28},
			Util:                   UtilRange{Lo: 0.88, Hi: 0.92},
			Rationale: "CFD-like: baseline mesh (M0) with long compute phases; periodic checkpoint/collective " +
				"spikes raise RSS to Mp before releasing. Good for testing fast limit raises and hysteresis.",
		},
		{
			Name:                   "MD",
			BaselineFractionCenter: 0.30,
			PeakFractionCenter:     0.40,
			Threads:                ThreadRange{Lo: 8, Hi: 12},
			Util:                   UtilRange{Lo: 0.60, Hi: 0.75},
			Rationale: "Molecular dynamics-like: steady working set M0 for long compute; brief neighbor-list/I-O " +
				"spikes to Mp followed by immediate release. Good for minimal-churn, headroom-aware limits.",
		},
		{
			Name:                   "ANALYTICS",
			BaselineFractionCenter: 0.25,
			PeakFractionCenter:     0.40,
			Threads:                ThreadRange{Lo: 8, Hi: 10},
			Util:                   UtilRange{Lo: 0.35, Hi: 0.50},
			Rationale: "Analytics/ETL-like: allocate M0, run short CPU bursts separated by longer sleeps (I/O waits); " +
				"transient growth toward Mp then an aggressive shrink. Good for downscaling requests in calm windows.",
		},
		{
			Name:                   "FFT",
			BaselineFractionCenter: 0.25,
			PeakFractionCenter:     0.38,
			Threads:                ThreadRange{Lo: 16, Hi: 20},
			Util:                   UtilRange{Lo: 0.75, Hi: 0.85},
			Rationale: "FFT/PDE-like: staged growth (planning/buffer setup) to Mp, plateau compute, staged release, " +
				"and a late mini-spike. Good for multi-step resize logic and conservative limit downscaling.",
		},
		{
			Name:                   "DL",
			BaselineFractionCenter: 0.20,
			PeakFractionCenter:     0.45,
			Threads:                ThreadRange{Lo: 28, Hi: 30},
			Util:                   UtilRange{Lo: 0.90, Hi: 0.95},
			Rationale: "CPU-centric training: modest M0 with per-epoch temporaries that lift RSS toward Mp; " +
				"very high thread count and utilization. Good for CPU co-scheduling and safety under spikes.",
		},
	}
}

// Validate checks every target against the policy's hard bounds.
func (c Catalog) Validate(p ResourcePolicy) error {
	if len(c) == 0 {
		return errors.New("catalog: no archetype targets")
	}
	seen := make(map[string]struct{}, len(c))
	for _, t := range c {
		if t.Name == "" {
			return errors.New("catalog: target with empty name")
		}
		if _, dup := seen[t.Name]; dup {
			return errors.Errorf("catalog: duplicate target %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if err := t.validate(p); err != nil {
			return errors.Wrapf(err, "catalog: target %q", t.Name)
		}
	}
	return nil
}

func (t ArchetypeTarget) validate(p ResourcePolicy) error {
	if t.BaselineFractionCenter <= 0 || t.PeakFractionCenter <= t.BaselineFractionCenter {
		return errors.Errorf("fraction centers must satisfy 0 < base (%.2f) < peak (%.2f)",
			t.BaselineFractionCenter, t.PeakFractionCenter)
	}
	if t.Threads.Lo < MinThreads {
		return errors.Errorf("thread range lo %d is below the floor %d", t.Threads.Lo, MinThreads)
	}
	if t.Threads.Hi < t.Threads.Lo {
		return errors.Errorf("thread range [%d, %d] is not increasing", t.Threads.Lo, t.Threads.Hi)
	}
	if t.Threads.Hi >= p.CoreCount {
		return errors.Errorf("thread range hi %d must stay strictly below core count %d", t.Threads.Hi, p.CoreCount)
	}
	if t.Util.Lo <= 0 || t.Util.Hi < t.Util.Lo || t.Util.Hi > 1 {
		return errors.Errorf("utilization range [%.2f, %.2f] must satisfy 0 < lo <= hi <= 1", t.Util.Lo, t.Util.Hi)
	}
	return nil
}

// Target returns the entry with the given name.
func (c Catalog) Target(name string) (ArchetypeTarget, bool) {
	for _, t := range c {
		if t.Name == name {
			return t, true
		}
	}
	return ArchetypeTarget{}, false
}
