package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agbru/matbench/internal/cli"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/memory"
	"github.com/agbru/matbench/internal/metrics"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/record"
)

// benchmarkSize generates two size×size operands, runs the selected
// strategies on them and reports, records and measures the outcome.
//
// In quiet mode the report is replaced by the "<size> <par> <seq>" line and
// diagnostics go to ErrWriter; otherwise everything is written to out.
func (a *Application) benchmarkSize(ctx context.Context, size int, reporter orchestration.ProgressReporter, presenter orchestration.ResultPresenter, out io.Writer) int {
	cfg := a.Config
	report, diag := out, out
	if cfg.Quiet {
		report, diag = io.Discard, a.ErrWriter
	}

	if err := cfg.CheckSize(size); err != nil {
		return presenter.HandleError(err, 0, diag)
	}
	multipliers, err := orchestration.GetMultipliersToRun(cfg.Algo, a.Factory)
	if err != nil {
		return presenter.HandleError(apperrors.NewConfigError("%v", err), 0, diag)
	}
	if err := a.checkMemoryBudget(size, len(multipliers), report); err != nil {
		return presenter.HandleError(err, 0, diag)
	}

	rng := matrix.NewRand(cfg.Seed)
	am, err := matrix.Random(size, rng, cfg.Quantize)
	if err != nil {
		return presenter.HandleError(err, 0, diag)
	}
	bm, err := matrix.Random(size, rng, cfg.Quantize)
	if err != nil {
		return presenter.HandleError(err, 0, diag)
	}

	workers := multiply.ResolveWorkers(cfg.Workers)
	cli.PrintExecutionConfig(cfg, size, workers, report)
	cli.PrintExecutionMode(multipliers, report)
	if cfg.Print {
		if err := cli.DisplayOperands(report, am, bm); err != nil {
			return presenter.HandleError(apperrors.IOError{Path: "stdout", Cause: err}, 0, diag)
		}
	}

	a.Logger.Debug().
		Int("size", size).
		Int("workers", workers).
		Int("strategies", len(multipliers)).
		Msg("benchmark starting")

	gc := memory.NewGCController(cfg.GCMode, size)
	gc.SetLogger(a.Logger)
	gc.Begin()
	results := orchestration.ExecuteBenchmark(ctx, multipliers, am, bm,
		multiply.Options{Workers: workers, Logger: a.Logger}, reporter, report)
	gc.End()

	for i := range results {
		if errors.Is(results[i].Err, context.DeadlineExceeded) {
			results[i].Err = apperrors.TimeoutError{Operation: results[i].Name, Limit: cfg.Timeout}
		}
	}
	a.observe(size, workers, results)

	code := orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{
		Size:        size,
		Workers:     workers,
		Verbose:     cfg.Verbose,
		PrintMatrix: cfg.Print,
	}, presenter, report)

	if cfg.Verbose && gc.Active() {
		s := gc.Stats()
		cli.DisplayMemoryStats(s.HeapAlloc, s.TotalAlloc, s.NumGC, s.PauseTotalNs, report)
	}

	if cfg.Quiet {
		if code != apperrors.ExitSuccess {
			a.reportQuietFailure(results)
		} else {
			cli.DisplayQuietResult(out, size, results)
		}
	}

	if code == apperrors.ExitErrorMismatch {
		return code
	}
	if recCode := a.record(size, results, report, diag); recCode != apperrors.ExitSuccess && code == apperrors.ExitSuccess {
		code = recCode
	}
	return code
}

// checkMemoryBudget rejects runs whose estimated footprint exceeds
// --memory-limit. Without a limit it only logs the estimate.
func (a *Application) checkMemoryBudget(size, strategies int, out io.Writer) error {
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		return apperrors.NewConfigError("invalid --memory-limit: %v", err)
	}
	est := memory.EstimateMemoryUsage(size, strategies)
	a.Logger.Debug().Uint64("estimated_bytes", est.TotalBytes).Msg("memory estimate")
	if est.TotalBytes > limit {
		return apperrors.NewConfigError("estimated memory %s exceeds limit %s",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
	}
	if a.Config.MemoryLimit != "" {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n", memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
	}
	return nil
}

// record appends the parallel and sequential timings to the log. Nothing is
// written unless both strategies ran and succeeded.
func (a *Application) record(size int, results []orchestration.BenchmarkResult, out, diag io.Writer) int {
	par, okPar := orchestration.FindResult(results, "parallel")
	seq, okSeq := orchestration.FindResult(results, "sequential")
	if !okPar || !okSeq || par.Err != nil || seq.Err != nil {
		return apperrors.ExitSuccess
	}

	rec := record.TimingRecord{Size: size, Parallel: par.Duration, Sequential: seq.Duration}
	if err := a.Recorder.Record(rec); err != nil {
		a.Logger.Error().Err(err).Msg("timing not recorded")
		return apperrors.HandleBenchmarkError(err, 0, diag, cli.CLIColorProvider{})
	}
	if fr, ok := a.Recorder.(*record.FileRecorder); ok {
		cli.DisplayRecorded(out, fr.Path())
	}
	a.Logger.Debug().Str("record", rec.String()).Msg("timing recorded")
	return apperrors.ExitSuccess
}

// observe feeds the run into the metrics registry.
func (a *Application) observe(size, workers int, results []orchestration.BenchmarkResult) {
	a.metrics.SetWorkers(workers)
	for _, r := range results {
		a.metrics.ObserveRun(r.Name, size, r.Duration, r.Err)
	}
	par, okPar := orchestration.FindResult(results, "parallel")
	seq, okSeq := orchestration.FindResult(results, "sequential")
	if okPar && okSeq && par.Err == nil && seq.Err == nil {
		a.metrics.ObserveSpeedup(size, par.Duration, seq.Duration)
	}
	a.metrics.ObserveMemory(metrics.ReadRunMemory(size))
}

// reportQuietFailure writes the cause of a failed quiet run to ErrWriter,
// since the regular report was discarded.
func (a *Application) reportQuietFailure(results []orchestration.BenchmarkResult) {
	if err := orchestration.CheckConsistency(results); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: the strategies disagree: %v\n", err)
		return
	}
	if err := orchestration.FirstError(results); err != nil {
		apperrors.HandleBenchmarkError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
}
