package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/matbench/internal/config"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/sysmon"
	"github.com/agbru/matbench/internal/ui"
)

// PrintExecutionConfig displays the run configuration: matrix size, worker
// count, timeout and the machine the timings are taken on.
//
// Parameters:
//   - cfg: The application configuration.
//   - size: The matrix dimension of this run.
//   - workers: The resolved parallel worker count.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, size, workers int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Multiplying two %s%d×%d%s matrices with a timeout of %s%s%s.\n",
		ui.ColorCyan(), size, size, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		sysmon.CPUFeatureString())
	fmt.Fprintf(out, "Parallel workers: %s%d%s.\n", ui.ColorCyan(), workers, ui.ColorReset())
	if cfg.Seed != 0 {
		fmt.Fprintf(out, "%sSeed: %d.%s\n", ui.ColorGrey(), cfg.Seed, ui.ColorReset())
	}
}

// PrintExecutionMode lists the strategies about to run, in order.
func PrintExecutionMode(multipliers []multiply.Multiplier, out io.Writer) {
	names := make([]string, len(multipliers))
	for i, m := range multipliers {
		names[i] = ui.ColorGreen() + m.Name() + ui.ColorReset()
	}
	if len(multipliers) == 1 {
		fmt.Fprintf(out, "Execution mode: single run with the %s strategy.\n", names[0])
	} else {
		fmt.Fprintf(out, "Execution mode: %s, one after the other.\n", strings.Join(names, " → "))
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
