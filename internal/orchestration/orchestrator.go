package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per strategy so that
// a slow display rarely causes samples to be dropped.
const ProgressBufferMultiplier = 64

// Tolerance is the largest element-wise difference accepted between the
// results of two strategies.
const Tolerance = 1e-9

const tracerName = "github.com/agbru/matbench/internal/orchestration"

// ExecuteBenchmark runs each multiplier on (a, b) one after another, in the
// given order, and times each run.
//
// Strategies are never run concurrently: they would compete for cores and
// distort each other's wall-clock timings. Each run is wrapped in an
// OpenTelemetry span. Once ctx is done the remaining strategies report the
// context error without running.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - multipliers: The strategies to run, in order.
//   - a, b: The operands, shared read-only by every run.
//   - opts: Options passed to every strategy; Progress is overwritten.
//   - progressReporter: Display for progress (NullProgressReporter in quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []BenchmarkResult: One result per multiplier, in input order.
func ExecuteBenchmark(ctx context.Context, multipliers []multiply.Multiplier, a, b *matrix.Matrix, opts multiply.Options, progressReporter ProgressReporter, out io.Writer) []BenchmarkResult {
	results := make([]BenchmarkResult, len(multipliers))
	progressChan := make(chan progress.ProgressUpdate, max(len(multipliers), 1)*ProgressBufferMultiplier)

	subject := progress.NewProgressSubject()
	subject.Register(progress.NewChannelObserver(progressChan))
	subject.Register(progress.NewLoggingObserver(opts.Logger, 0.25))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(multipliers), out)

	tracer := otel.Tracer(tracerName)
	for i, m := range multipliers {
		runOpts := opts
		runOpts.Progress = subject.Freeze(i)
		results[i] = runOne(ctx, tracer, m, a, b, runOpts)
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

func runOne(ctx context.Context, tracer trace.Tracer, m multiply.Multiplier, a, b *matrix.Matrix, opts multiply.Options) BenchmarkResult {
	ctx, span := tracer.Start(ctx, "multiply."+m.Name(), trace.WithAttributes(
		attribute.String("matbench.strategy", m.Name()),
		attribute.Int("matbench.size", a.Size()),
		attribute.Int("matbench.workers", multiply.ResolveWorkers(opts.Workers)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "not started")
		return BenchmarkResult{Name: m.Name(), Err: err}
	}

	log := opts.Logger.With().Str("strategy", m.Name()).Logger()
	log.Debug().Int("size", a.Size()).Msg("run started")

	start := time.Now()
	res, err := m.Multiply(ctx, a, b, opts)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Float64("matbench.seconds", elapsed.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug().Err(err).Dur("elapsed", elapsed).Msg("run failed")
		return BenchmarkResult{Name: m.Name(), Duration: elapsed, Err: apperrors.BenchmarkError{Strategy: m.Name(), Cause: err}}
	}
	log.Debug().Dur("elapsed", elapsed).Msg("run finished")
	return BenchmarkResult{Name: m.Name(), Result: res, Duration: elapsed}
}

// FindResult returns the result of the named strategy.
func FindResult(results []BenchmarkResult, name string) (BenchmarkResult, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return BenchmarkResult{}, false
}

// FirstError returns the first non-nil error in results.
func FirstError(results []BenchmarkResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// CheckConsistency reports an error if any two successful results differ by
// more than Tolerance.
func CheckConsistency(results []BenchmarkResult) error {
	var ref *BenchmarkResult
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		if ref == nil {
			ref = r
			continue
		}
		d, err := r.Result.MaxAbsDiff(ref.Result)
		if err != nil {
			return fmt.Errorf("%s vs %s: %w", r.Name, ref.Name, err)
		}
		if !(d <= Tolerance) {
			return fmt.Errorf("%s vs %s: max abs diff %g exceeds %g", r.Name, ref.Name, d, Tolerance)
		}
	}
	return nil
}

// AnalyzeComparisonResults presents the results and decides the exit code.
//
// It presents the results sorted by duration (failures last), validates that
// every successful result agrees within Tolerance, and reports the product
// once.
//
// Parameters:
//   - results: The benchmark results. The slice is not reordered.
//   - opts: Presentation options.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []BenchmarkResult, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	sorted := append([]BenchmarkResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if (sorted[i].Err == nil) != (sorted[j].Err == nil) {
			return sorted[i].Err == nil
		}
		return sorted[i].Duration < sorted[j].Duration
	})

	var firstValid *BenchmarkResult
	for i := range sorted {
		if sorted[i].Err == nil {
			firstValid = &sorted[i]
			break
		}
	}

	presenter.PresentComparisonTable(sorted, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the multiplication.\n")
		return presenter.HandleError(FirstError(results), 0, out)
	}

	if err := CheckConsistency(sorted); err != nil {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The strategies disagree: %v\n", err)
		return apperrors.ExitErrorMismatch
	}

	if err := FirstError(results); err != nil {
		fmt.Fprintf(out, "\nGlobal Status: Partial failure. Successful results are consistent.\n")
		return presenter.HandleError(err, 0, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All results are consistent.\n")
	presenter.PresentResult(*firstValid, results, opts, out)
	return apperrors.ExitSuccess
}
