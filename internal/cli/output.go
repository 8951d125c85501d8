// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Prompt* functions read from the user.

package cli

import (
	"fmt"
	"io"

	"github.com/agbru/matbench/internal/format"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/ui"
)

// FormatQuietResult formats the scripting line "<size> <par> <seq>", with
// durations in seconds. A strategy that did not run prints as "-".
func FormatQuietResult(size int, results []orchestration.BenchmarkResult) string {
	seconds := func(name string) string {
		r, ok := orchestration.FindResult(results, name)
		if !ok || r.Err != nil {
			return "-"
		}
		return format.FormatSeconds(r.Duration)
	}
	return fmt.Sprintf("%d %s %s", size, seconds("parallel"), seconds("sequential"))
}

// DisplayQuietResult writes FormatQuietResult followed by a newline.
func DisplayQuietResult(out io.Writer, size int, results []orchestration.BenchmarkResult) {
	fmt.Fprintln(out, FormatQuietResult(size, results))
}

// DisplayOperands prints both input matrices.
func DisplayOperands(out io.Writer, a, b *matrix.Matrix) error {
	for _, op := range []struct {
		name string
		m    *matrix.Matrix
	}{{"Matrix A", a}, {"Matrix B", b}} {
		fmt.Fprintf(out, "\n%s%s:%s\n", ui.ColorBold(), op.name, ui.ColorReset())
		if err := matrix.Fprint(out, op.m); err != nil {
			return err
		}
	}
	return nil
}

// DisplayRecorded confirms that a timing line was appended to path.
func DisplayRecorded(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Timing recorded in: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
