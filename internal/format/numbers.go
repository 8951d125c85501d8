// Number formatting utilities shared by the CLI and the dashboard.

package format

import (
	"fmt"
	"strings"
	"time"
)

// FormatNumberString inserts thousands separators into a decimal string.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatSpeedup renders the ratio baseline/candidate as "3.42x". A zero
// candidate duration yields "n/a".
func FormatSpeedup(baseline, candidate time.Duration) string {
	if candidate <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", float64(baseline)/float64(candidate))
}

// GFLOPS returns the throughput of an n×n multiplication (2n³ floating-point
// operations) completed in d.
func GFLOPS(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	ops := 2 * float64(n) * float64(n) * float64(n)
	return ops / d.Seconds() / 1e9
}
