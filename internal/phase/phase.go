// Package phase defines the simulator phase variants and their bit-exact
// flag serialization.
//
// A Phase is one timed unit of simulated resource behavior. The external
// simulator consumes phases in emitted order; memory phases apply instantly
// and persist, cpu/sleep phases hold for their duration.
package phase

// Kind is the stable discriminator for the Phase variant.
//
// The string values are part of the wire protocol (`type=` in the rendered
// fragment); do not rename.
type Kind string

const (
	KindMemAbs   Kind = "mem-abs"
	KindMemDelta Kind = "mem-delta"
	KindCPU      Kind = "cpu"
	KindSleep    Kind = "sleep"
)

// Phase is a tagged variant over the four simulator phase shapes.
//
// Field usage by kind:
//   - KindMemAbs:   GiB (absolute resident set, always >= 0)
//   - KindMemDelta: GiB (signed adjustment; the sign is semantic)
//   - KindCPU:      Threads, Util, DurationSec
//   - KindSleep:    DurationSec
type Phase struct {
	Kind        Kind
	GiB         float64
	Threads     int
	Util        float64
	DurationSec int
}

// MemAbs builds a phase setting resident memory to an absolute GiB value.
func MemAbs(gib float64) Phase {
	return Phase{Kind: KindMemAbs, GiB: gib}
}

// MemDelta builds a phase adjusting resident memory by a signed GiB amount.
// A zero or positive value renders with an explicit '+'.
func MemDelta(gib float64) Phase {
	return Phase{Kind: KindMemDelta, GiB: gib}
}

// CPU builds a compute phase running threads at fractional utilization for
// the given number of seconds.
func CPU(threads int, util float64, durationSec int) Phase {
	return Phase{Kind: KindCPU, Threads: threads, Util: util, DurationSec: durationSec}
}

// Sleep builds an idle phase of the given number of seconds.
func Sleep(durationSec int) Phase {
	return Phase{Kind: KindSleep, DurationSec: durationSec}
}
