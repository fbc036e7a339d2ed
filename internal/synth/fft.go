package synth

import (
	"fmt"
	"math"

	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
)

// miniSpikeCapGiB caps the FFT late spike-and-release pair. A fixed
// archetype policy parameter; the spike is additionally clipped to whatever
// headroom the staged release opened up.
const miniSpikeCapGiB = 4.0

// synthesizeFFT stages memory growth in three steps (≈ a third of the
// baseline, then to the baseline plateau, then to peak) interleaved with
// three compute phases of decaying threads and utilization, a partial staged
// release, and a small capped late spike-and-release pair.
func synthesizeFFT(p policy.ResourcePolicy, t policy.ArchetypeTarget, s *sampler.Sampler, name string) JobDescriptor {
	env := sampleEnvelope(p, t, s, 0.03, 0.03)

	th := s.IntBetween(t.Threads.Lo, t.Threads.Hi)
	util := s.UniformBetween(t.Util.Lo, t.Util.Hi)

	// Planning/buffer-setup staging: never start above the baseline plateau.
	stage1 := floorGiB(math.Min(math.Max(env.BaselineGiB/3.0, 8.0), env.BaselineGiB))
	stage2Add := floorGiB(math.Max(env.BaselineGiB-stage1, 0))
	plateau := stage1 + stage2Add
	stage3Add := cappedGrowth(env.DeltaGiB, plateau, env.PeakGiB)
	atPeak := plateau + stage3Add

	// The 2 GiB floor can exceed the whole envelope on small-capacity
	// policies; clip the release to the current level so cumulative memory
	// never undershoots zero.
	release1 := math.Min(roundGiB(math.Max(env.BaselineGiB*0.25, 2.0)), atPeak)
	afterRelease := atPeak - release1

	mini := math.Min(miniSpikeCapGiB, floorGiB(env.DeltaGiB*0.5))
	mini = math.Min(mini, floorGiB(env.PeakGiB-afterRelease))

	c1 := durationSec(s, 180, 1.4, 120, 300)
	c2 := durationSec(s, 150, 1.4, 90, 240)
	c3 := durationSec(s, 120, 1.3, 60, 180)
	w := durationSec(s, 15, 1.3, 10, 30)

	phases := []phase.Phase{
		phase.MemAbs(stage1),
		phase.MemDelta(+stage2Add),
		phase.CPU(th, util, c1),
		phase.MemDelta(+stage3Add),
		phase.CPU(drawDownThreads(th, 2, 12), sampler.Clamp(util-0.03, 0.6, 0.9), c2),
		phase.MemDelta(-release1),
		phase.CPU(drawDownThreads(th, 4, 12), sampler.Clamp(util-0.08, 0.5, 0.85), c3),
		phase.MemDelta(+mini),
		phase.Sleep(w),
		phase.MemDelta(-mini),
	}

	annotation := fmt.Sprintf(
		"# α_base=%.2f, α_peak=%.2f | C_mem=%.0fGiB\n"+
			"# M0≈%.1fGiB, Mp≈%.1fGiB, staged ΔM≈%.1fGiB | threads≈%d, util≈%.2f\n"+
			"# %s\n",
		env.AlphaBase, env.AlphaPeak, p.MemoryCapacityGiB,
		env.BaselineGiB, env.PeakGiB, env.DeltaGiB, th, util,
		t.Rationale)

	return JobDescriptor{Name: name, Case: string(FFT), Phases: phases, Annotation: annotation, Envelope: env}
}
