package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/progress"
)

// BenchmarkResult is the outcome of one strategy run. It is the shared domain
// type between orchestration and presentation layers.
type BenchmarkResult struct {
	// Name is the registry key of the strategy (e.g. "parallel").
	Name string
	// Result is the product matrix. It is nil if an error occurred.
	Result *matrix.Matrix
	// Duration is the wall-clock time of the multiplication alone.
	Duration time.Duration
	// Err contains any error that occurred during the run.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Size        int
	Workers     int
	Verbose     bool
	PrintMatrix bool
}

// ProgressReporter defines the interface for displaying benchmark progress.
// Implementations handle the visual representation (spinner, dashboard)
// while the orchestration layer focuses on running the strategies.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done. It is run on its own goroutine.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving row-completion samples.
	//   - numStrategies: The number of strategies in the benchmark.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	f(wg, progressChan, numStrategies, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting benchmark results,
// allowing different output formats without modifying the orchestration
// logic.
type ResultPresenter interface {
	// PresentComparisonTable displays the per-strategy timing table.
	PresentComparisonTable(results []BenchmarkResult, out io.Writer)

	// PresentResult displays the agreed product and the speedup summary.
	PresentResult(result BenchmarkResult, all []BenchmarkResult, opts PresentationOptions, out io.Writer)

	// HandleError prints a diagnostic for err and returns the exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
