package cli

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/format"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/progress"
	"github.com/agbru/matbench/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	DisplayProgress(wg, progressChan, numStrategies, out)
}

// CLIColorProvider supplies the current theme's colors to error handling.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for colorized
// terminal output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays strategy names, durations, throughput,
// speedup over the sequential run, and status. Uses manual padding so ANSI
// color codes do not break alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.BenchmarkResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	baseline, hasBaseline := orchestration.FindResult(results, "sequential")
	hasBaseline = hasBaseline && baseline.Err == nil

	type row struct{ name, duration, gflops, speedup, status string }
	rows := make([]row, 0, len(results))
	widths := [4]int{len("Strategy"), len("Duration"), len("GFLOPS"), len("Speedup")}
	for _, res := range results {
		r := row{name: res.Name, duration: "-", gflops: "-", speedup: "-"}
		if res.Err != nil {
			r.status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			r.status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			r.duration = formatDuration(res.Duration)
			if res.Duration > 0 && res.Result != nil {
				r.gflops = fmt.Sprintf("%.3f", format.GFLOPS(res.Result.Size(), res.Duration))
			}
			if hasBaseline {
				r.speedup = format.FormatSpeedup(baseline.Duration, res.Duration)
			}
		}
		for i, s := range []string{r.name, r.duration, r.gflops, r.speedup} {
			widths[i] = max(widths[i], len([]rune(s)))
		}
		rows = append(rows, r)
	}

	header := []string{"Strategy", "Duration", "GFLOPS", "Speedup"}
	for i, h := range header {
		fmt.Fprintf(out, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[i]-len(h)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", ui.ColorUnderline(), ui.ColorReset())

	for _, r := range rows {
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s   %s%s   %s\n",
			ui.ColorBlue(), r.name, ui.ColorReset(), padRight("", widths[0]-len([]rune(r.name))),
			ui.ColorYellow(), r.duration, ui.ColorReset(), padRight("", widths[1]-len([]rune(r.duration))),
			r.gflops, padRight("", widths[2]-len(r.gflops)),
			r.speedup, padRight("", widths[3]-len(r.speedup)),
			r.status)
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the parallel and sequential timings, the speedup,
// and optionally the product matrix.
func (CLIResultPresenter) PresentResult(result orchestration.BenchmarkResult, all []orchestration.BenchmarkResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Matrix size: %s%d×%d%s\n", ui.ColorCyan(), opts.Size, opts.Size, ui.ColorReset())

	par, hasPar := orchestration.FindResult(all, "parallel")
	seq, hasSeq := orchestration.FindResult(all, "sequential")
	if hasPar {
		fmt.Fprintf(out, "Parallel (%d workers): %s%s%s s\n", opts.Workers, ui.ColorYellow(), format.FormatSeconds(par.Duration), ui.ColorReset())
	}
	if hasSeq {
		fmt.Fprintf(out, "Sequential:           %s%s%s s\n", ui.ColorYellow(), format.FormatSeconds(seq.Duration), ui.ColorReset())
	}
	if hasPar && hasSeq {
		fmt.Fprintf(out, "Speedup:              %s%s%s\n", ui.ColorGreen(), format.FormatSpeedup(seq.Duration, par.Duration), ui.ColorReset())
	}
	if opts.Verbose {
		n := int64(opts.Size)
		fmt.Fprintf(out, "Floating-point operations: %s\n", format.FormatNumberString(strconv.FormatInt(2*n*n*n, 10)))
		fmt.Fprintf(out, "Fastest strategy: %s%s%s (%s)\n", ui.ColorBlue(), result.Name, ui.ColorReset(), formatDuration(result.Duration))
	}

	if opts.PrintMatrix && result.Result != nil {
		fmt.Fprintf(out, "\nProduct:\n")
		if err := matrix.Fprint(out, result.Result); err != nil {
			fmt.Fprintf(out, "%scannot print product: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		}
	}
}

// HandleError prints a colorized diagnostic and returns the exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleBenchmarkError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats shows memory statistics after a run.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, pauseTotalNs uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	if pauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms (GC disabled)\n")
	}
}
