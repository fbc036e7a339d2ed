package phase

import (
	"fmt"
	"math"
	"strings"
)

// Fragment renders one phase as the simulator's `--phase` flag fragment.
//
// Protocol (bit-exact):
//   - mem abs:   --phase type=mem,abs=<D.D>G
//   - mem delta: --phase type=mem,delta=+<D.D>G  or  -<D.D>G
//   - cpu:       --phase type=cpu,threads=<n>,util=<D.DD>,duration=<s>s
//   - sleep:     --phase type=sleep,duration=<s>s
//
// Memory values carry exactly one decimal digit and a trailing G. Delta
// fragments always carry a literal sign character; a zero or positive delta
// renders with '+'. The simulator disambiguates growth from shrink solely by
// that sign, so it is never omitted.
func Fragment(p Phase) string {
	switch p.Kind {
	case KindMemAbs:
		return fmt.Sprintf("--phase type=mem,abs=%s", formatGiB(p.GiB))
	case KindMemDelta:
		// math.Abs also normalizes negative zero so a zero delta always
		// renders as +0.0G.
		mag := formatGiB(math.Abs(p.GiB))
		if p.GiB >= 0 {
			return fmt.Sprintf("--phase type=mem,delta=+%s", mag)
		}
		return fmt.Sprintf("--phase type=mem,delta=-%s", mag)
	case KindCPU:
		return fmt.Sprintf("--phase type=cpu,threads=%d,util=%.2f,duration=%ds", p.Threads, p.Util, p.DurationSec)
	case KindSleep:
		return fmt.Sprintf("--phase type=sleep,duration=%ds", p.DurationSec)
	default:
		panic(fmt.Sprintf("phase: unknown kind %q", p.Kind))
	}
}

// formatGiB renders a non-negative GiB quantity like "22.4G".
func formatGiB(gib float64) string {
	return fmt.Sprintf("%.1fG", gib)
}

// Command renders the full multi-line job command: the binary invocation on
// the first line, then one tab-indented fragment per line, each but the last
// continued with a trailing backslash. The final fragment is unterminated.
func Command(binPath, name string, phases []Phase) string {
	lines := make([]string, 0, len(phases)+1)
	lines = append(lines, fmt.Sprintf("%s --name=%s \\", binPath, name))
	for i, p := range phases {
		cont := ""
		if i < len(phases)-1 {
			cont = " \\"
		}
		lines = append(lines, "\t"+Fragment(p)+cont)
	}
	return strings.Join(lines, "\n")
}
