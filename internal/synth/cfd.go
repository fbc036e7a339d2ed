package synth

import (
	"fmt"

	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
)

// synthesizeCFD stages two compute→spike→wait→release cycles: a full-delta
// checkpoint spike released at 75%, then a second spike at ~65% of the delta
// clipped to whatever headroom the partial release left.
func synthesizeCFD(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, name string) JobDescriptor {
	env := sampleEnvelope(p, t, s, 0.05, 0.05)

	th := s.IntBetween(t.Threads.Lo, t.Threads.Hi)
	util1 := s.UniformBetween(t.Util.Lo, t.Util.Hi)
	util2 := sampler.Clamp(util1-0.02, t.Util.Lo, t.Util.Hi)

	c1 := durationSec(s, computeMeanSec, computeSigma, computeMinSec, computeMaxSec)
	c2 := durationSec(s, computeMeanSec*0.75, computeSigma, 90, computeMaxSec)
	w1 := durationSec(s, waitMeanSec, waitSigma, waitMinSec, waitMaxSec)
	w2 := durationSec(s, waitMeanSec*0.8, waitSigma, waitMinSec, waitMaxSec)

	base := floorGiB(env.BaselineGiB)
	spike1 := cappedGrowth(env.DeltaGiB, base, env.PeakGiB)
	release1 := roundGiB(spike1 * 0.75)
	afterRelease := base + spike1 - release1
	spike2 := cappedGrowth(env.DeltaGiB*0.65, afterRelease, env.PeakGiB)

	phases := []phase.Phase{
		phase.MemAbs(base),
		phase.CPU(th, util1, c1),
		phase.MemDelta(+spike1),
		phase.Sleep(w1),
		phase.MemDelta(-release1),
		phase.CPU(drawDownThreads(th, 2, policy.MinThreads), util2, c2),
		phase.MemDelta(+spike2),
		phase.Sleep(w2),
		phase.MemDelta(-spike2),
		phase.CPU(drawDownThreads(th, 4, policy.MinThreads), sampler.Clamp(util2-0.02, 0.35, 0.99), c1),
	}

	annotation := fmt.Sprintf(
		"# α_base=%.2f, α_peak=%.2f | C_mem=%.0fGiB\n"+
			"# M0=%.1fGiB, Mp=%.1fGiB, ΔM=%.1fGiB | threads≈%d, util≈%.2f\n"+
			"# %s\n",
		env.AlphaBase, env.AlphaPeak, p.MemoryCapacityGiB,
		env.BaselineGiB, env.PeakGiB, env.DeltaGiB, th, util1,
		t.Rationale)

	return JobDescriptor{Name: name, Case: string(CFD), Phases: phases, Annotation: annotation, Envelope: env}
}
