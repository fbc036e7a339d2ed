package synth

import (
	"fmt"

	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
)

// synthesizeDL stages two full grow/release cycles (per-epoch temporaries)
// bracketed by three high-utilization compute phases. Thread count is kept
// strictly below the node core count.
func synthesizeDL(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, name string) JobDescriptor {
	env := sampleEnvelope(p, t, s, 0.03, 0.04)

	th := s.IntBetween(t.Threads.Lo, t.Threads.Hi)
	if th >= p.CoreCount {
		th = p.CoreCount - 1
	}
	util := s.UniformBetween(t.Util.Lo, t.Util.Hi)

	epoch1 := durationSec(s, 120, 1.3, 90, 180)
	epoch2 := durationSec(s, 180, 1.3, 120, 240)
	epoch3 := durationSec(s, 180, 1.3, 120, 240)
	w1 := durationSec(s, 12, 1.3, 8, 20)
	w2 := durationSec(s, 15, 1.3, 10, 22)

	base := floorGiB(env.BaselineGiB)
	epochSpike := cappedGrowth(env.DeltaGiB, base, env.PeakGiB)

	phases := []phase.Phase{
		phase.MemAbs(base),
		phase.CPU(th, util, epoch1),
		phase.MemDelta(+epochSpike),
		phase.Sleep(w1),
		phase.MemDelta(-epochSpike),
		phase.CPU(th, sampler.Clamp(util-0.04, 0.7, 0.99), epoch2),
		phase.MemDelta(+epochSpike),
		phase.Sleep(w2),
		phase.MemDelta(-epochSpike),
		phase.CPU(drawDownThreads(th, 2, 20), sampler.Clamp(util-0.06, 0.7, 0.99), epoch3),
	}

	annotation := fmt.Sprintf(
		"# α_base=%.2f, α_peak=%.2f | C_mem=%.0fGiB\n"+
			"# M0=%.1fGiB, Mp=%.1fGiB, ΔM=%.1fGiB | threads≈%d, util≈%.2f\n"+
			"# %s\n",
		env.AlphaBase, env.AlphaPeak, p.MemoryCapacityGiB,
		env.BaselineGiB, env.PeakGiB, env.DeltaGiB, th, util,
		t.Rationale)

	return JobDescriptor{Name: name, Case: string(DL), Phases: phases, Annotation: annotation, Envelope: env}
}
