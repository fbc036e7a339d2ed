package synth

import (
	"fmt"
	"math"

	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
)

// overShrinkFactor sizes the ANALYTICS eviction shrink relative to the
// preceding growth. Deliberately above 1 to emulate aggressive cache
// eviction; the shrink is still clipped so cumulative memory stays >= 0.
const overShrinkFactor = 1.3

// synthesizeAnalytics stages two short CPU bursts separated by longer sleeps
// (I/O waits) before any memory growth, then a transient growth followed by
// an over-shrink and a low-utilization CPU tail.
func synthesizeAnalytics(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, name string) JobDescriptor {
	env := sampleEnvelope(p, t, s, 0.03, 0.04)

	th := s.IntBetween(t.Threads.Lo, t.Threads.Hi)
	util1 := s.UniformBetween(t.Util.Lo, t.Util.Hi)
	util2 := sampler.Clamp(util1+0.05, t.Util.Lo, t.Util.Hi)

	b1 := durationSec(s, 30, 1.3, 20, 60)
	b2 := durationSec(s, 45, 1.3, 20, 70)
	s1 := durationSec(s, 60, 1.6, 40, 100)
	s2 := durationSec(s, 90, 1.6, 50, 120)
	w := durationSec(s, 20, 1.5, 10, 40)
	tail := durationSec(s, 120, 1.4, 60, 240)

	base := floorGiB(env.BaselineGiB)
	growth := cappedGrowth(env.DeltaGiB, base, env.PeakGiB)
	shrink := math.Min(roundGiB(growth*overShrinkFactor), base+growth)

	phases := []phase.Phase{
		phase.MemAbs(base),
		phase.CPU(th, util1, b1),
		phase.Sleep(s1),
		phase.CPU(th, util2, b2),
		phase.Sleep(s2),
		phase.MemDelta(+growth),
		phase.Sleep(w),
		phase.MemDelta(-shrink),
		// Eviction tail keeps the sampled worker pool at low utilization;
		// thread counts never rise above the sampled baseline.
		phase.CPU(th, sampler.Clamp(util2, 0.35, 0.55), tail),
	}

	annotation := fmt.Sprintf(
		"# α_base=%.2f, α_peak=%.2f | C_mem=%.0fGiB\n"+
			"# M0=%.1fGiB, Mp=%.1fGiB, ΔM=%.1fGiB | threads≈%d, util≈%.2f→%.2f\n"+
			"# %s\n",
		env.AlphaBase, env.AlphaPeak, p.MemoryCapacityGiB,
		env.BaselineGiB, env.PeakGiB, env.DeltaGiB, th, util1, util2,
		t.Rationale)

	return JobDescriptor{Name: name, Case: string(Analytics), Phases: phases, Annotation: annotation, Envelope: env}
}
