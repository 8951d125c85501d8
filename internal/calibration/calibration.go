// Package calibration measures the parallel multiplier at several worker
// counts and caches the fastest count in a per-machine profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
)

// WorkerCounts returns the worker counts to measure: powers of two below
// maxWorkers, then maxWorkers itself.
func WorkerCounts(maxWorkers int) []int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	var counts []int
	for w := 1; w < maxWorkers; w *= 2 {
		counts = append(counts, w)
	}
	return append(counts, maxWorkers)
}

type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// measure multiplies a random size×size pair once per worker count and
// returns the timings with the index of the fastest successful run, or -1.
func measure(ctx context.Context, m multiply.Multiplier, size int, counts []int, logger zerolog.Logger) ([]calibrationResult, int, error) {
	rng := matrix.NewRand(1)
	a, err := matrix.Random(size, rng, false)
	if err != nil {
		return nil, -1, err
	}
	b, err := matrix.Random(size, rng, false)
	if err != nil {
		return nil, -1, err
	}

	results := make([]calibrationResult, 0, len(counts))
	best := -1
	for _, w := range counts {
		if err := ctx.Err(); err != nil {
			return results, best, err
		}
		start := time.Now()
		_, err := m.Multiply(ctx, a, b, multiply.Options{Workers: w, Logger: logger})
		res := calibrationResult{Workers: w, Duration: time.Since(start), Err: err}
		results = append(results, res)
		logger.Debug().Int("workers", w).Dur("elapsed", res.Duration).Err(err).Msg("calibration run")
		if err == nil && (best < 0 || res.Duration < results[best].Duration) {
			best = len(results) - 1
		}
	}
	return results, best, nil
}

// RunCalibration measures the parallel multiplier at cfg.CalibrationSize for
// every count from WorkerCounts(runtime.NumCPU()), prints a summary and saves
// the profile. It returns the process exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer, logger zerolog.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	counts := WorkerCounts(runtime.NumCPU())
	fmt.Fprintf(out, "Calibrating the parallel multiplier at size %d with worker counts %v...\n", cfg.CalibrationSize, counts)

	start := time.Now()
	results, best, err := measure(ctx, multiply.Parallel{}, cfg.CalibrationSize, counts, logger)
	printCalibrationResults(out, results, best)
	if err != nil {
		return apperrors.HandleBenchmarkError(err, time.Since(start), out, nil)
	}
	if best < 0 {
		fmt.Fprintln(out, "Calibration failed: no worker count completed.")
		return apperrors.HandleBenchmarkError(results[0].Err, 0, out, nil)
	}

	profile := NewProfile()
	profile.OptimalWorkers = results[best].Workers
	profile.CalibrationSize = cfg.CalibrationSize
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()

	path := resolveProfilePath(cfg.CalibrationProfile)
	if err := profile.SaveProfile(path); err != nil {
		return apperrors.HandleBenchmarkError(apperrors.IOError{Path: path, Cause: err}, 0, out, nil)
	}
	printCalibrationOutput(out, profile, path)
	return apperrors.ExitSuccess
}

// LoadCachedCalibration fills cfg.Workers from a valid profile when the
// user left it at zero. It reports whether the profile was applied.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.Workers != 0 {
		return cfg, false
	}
	profile, loaded := LoadOrCreateProfile(resolveProfilePath(path))
	if !loaded || !profile.IsValid() || profile.IsStale(ProfileMaxAge) {
		return cfg, false
	}
	cfg.Workers = profile.OptimalWorkers
	return cfg, true
}
