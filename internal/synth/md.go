package synth

import (
	"fmt"

	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
)

// synthesizeMD stages a single long compute over a steady working set, one
// full-envelope spike with an exact release, and a shorter second compute.
// Always exactly six phases: mem_abs, cpu, +delta, sleep, -delta, cpu.
func synthesizeMD(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, name string) JobDescriptor {
	env := sampleEnvelope(p, t, s, 0.04, 0.03)

	th := s.IntBetween(t.Threads.Lo, t.Threads.Hi)
	util := s.UniformBetween(t.Util.Lo, t.Util.Hi)

	c1 := durationSec(s, computeMeanSec*1.1, computeSigma, 300, 900)
	c2 := durationSec(s, computeMeanSec*0.8, computeSigma, 120, 480)
	wait := durationSec(s, waitMeanSec, waitSigma, waitMinSec, waitMaxSec)

	base := floorGiB(env.BaselineGiB)
	spike := cappedGrowth(env.DeltaGiB, base, env.PeakGiB)

	phases := []phase.Phase{
		phase.MemAbs(base),
		phase.CPU(th, util, c1),
		phase.MemDelta(+spike),
		phase.Sleep(wait),
		phase.MemDelta(-spike),
		phase.CPU(drawDownThreads(th, 2, policy.MinThreads), sampler.Clamp(util-0.05, 0.35, 0.95), c2),
	}

	annotation := fmt.Sprintf(
		"# α_base=%.2f, α_peak=%.2f | C_mem=%.0fGiB\n"+
			"# M0=%.1fGiB, Mp=%.1fGiB, ΔM=%.1fGiB | threads≈%d, util≈%.2f\n"+
			"# %s\n",
		env.AlphaBase, env.AlphaPeak, p.MemoryCapacityGiB,
		env.BaselineGiB, env.PeakGiB, env.DeltaGiB, th, util,
		t.Rationale)

	return JobDescriptor{Name: name, Case: string(MD), Phases: phases, Annotation: annotation, Envelope: env}
}
