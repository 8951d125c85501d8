// Package config defines the matbench configuration and parses it from
// command-line flags and MATBENCH_ environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/memory"
)

const (
	// EnvPrefix prefixes every environment variable read by ParseConfig.
	EnvPrefix = "MATBENCH_"

	// DefaultMaxSize is the largest matrix dimension accepted by default.
	DefaultMaxSize = 10000
	// DefaultTimeout bounds a whole benchmark run.
	DefaultTimeout = 5 * time.Minute
	// DefaultLogFile is the timing log appended to after each run.
	DefaultLogFile = "timing_results.txt"
	// DefaultAlgo runs parallel then sequential.
	DefaultAlgo = "both"
	// DefaultCalibrationSize is the matrix size used by --calibrate.
	DefaultCalibrationSize = 512
	// DefaultGCMode lets the GC controller decide from the matrix size.
	DefaultGCMode = "auto"
	// DefaultLogFormat writes human-readable diagnostics.
	DefaultLogFormat = "console"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Size is the matrix dimension. Zero means "ask on stdin" in single-size
	// mode.
	Size int
	// MaxSize is the largest accepted dimension.
	MaxSize int
	// Workers is the parallel worker count; zero selects the calibration
	// profile or runtime.NumCPU().
	Workers int
	// Algo selects the strategies: "both", "all", or a single strategy name.
	Algo string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Seed seeds matrix generation; zero derives a seed from the clock.
	Seed uint64
	// Quantize restricts generated values to multiples of 0.001.
	Quantize bool
	// LogFile is the timing log; empty disables recording.
	LogFile string
	// Print dumps the operands and the product.
	Print bool
	// Quiet prints only the timing line.
	Quiet bool
	// Verbose enables debug logging.
	Verbose bool
	// Sizes lists the dimensions of a sweep; empty means a single run.
	Sizes []int
	// TUI runs the sweep in the interactive dashboard.
	TUI bool
	// Calibrate searches for the fastest worker count and saves a profile.
	Calibrate bool
	// CalibrationSize is the matrix dimension used while calibrating.
	CalibrationSize int
	// CalibrationProfile overrides the profile path.
	CalibrationProfile string
	// MetricsFile receives Prometheus text exposition after the run.
	MetricsFile string
	// MemoryLimit rejects runs whose estimated footprint exceeds it (e.g. "2G").
	MemoryLimit string
	// GCMode controls the garbage collector during runs: auto, aggressive, disabled.
	GCMode string
	// LogFormat selects the diagnostic log encoding: console or json.
	LogFormat string
}

// Validate checks the configuration for semantic consistency.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.MaxSize <= 0 {
		return apperrors.NewConfigError("--max-size must be positive, got %d", c.MaxSize)
	}
	if c.Size < 0 {
		return apperrors.NewConfigError("matrix size must be positive, got %d", c.Size)
	}
	if c.Size > c.MaxSize {
		return apperrors.SizeLimitError{Requested: c.Size, Max: c.MaxSize}
	}
	for _, s := range c.Sizes {
		if s <= 0 {
			return apperrors.NewConfigError("--sizes entries must be positive, got %d", s)
		}
		if s > c.MaxSize {
			return apperrors.SizeLimitError{Requested: s, Max: c.MaxSize}
		}
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must be >= 0, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.CalibrationSize <= 0 || c.CalibrationSize > c.MaxSize {
		return apperrors.NewConfigError("--calibration-size must be in [1, %d], got %d", c.MaxSize, c.CalibrationSize)
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet are mutually exclusive")
	}
	if !memory.ValidGCMode(c.GCMode) {
		return apperrors.NewConfigError("--gc must be auto, aggressive or disabled, got %q", c.GCMode)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return apperrors.NewConfigError("--log-format must be console or json, got %q", c.LogFormat)
	}
	if !isValidAlgo(c.Algo, availableAlgos) {
		return apperrors.NewConfigError("unknown --algo %q (valid: both, all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

func isValidAlgo(algo string, available []string) bool {
	if algo == "both" || algo == "all" {
		return true
	}
	for _, a := range available {
		if a == algo {
			return true
		}
	}
	return false
}

// IsSweep reports whether the run covers several sizes.
func (c AppConfig) IsSweep() bool { return len(c.Sizes) > 0 }

// ParseSizes parses a comma-separated list of dimensions such as
// "64,128,256".
func ParseSizes(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid size %q in --sizes", p)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// ParseConfig parses args into an AppConfig.
//
// Priority is CLI flags, then MATBENCH_* environment variables, then
// defaults. The calibration profile is applied later by the application, and
// only when --workers is left at zero.
//
// Parameters:
//   - programName: The program name used in the usage message.
//   - args: Command-line arguments without the program name.
//   - errorWriter: Destination of usage and parse errors.
//   - availableAlgos: Registered strategy names, for validation and help.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h/--help, a ConfigError or SizeLimitError
//     otherwise.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	var sizes string

	fs.IntVar(&config.Size, "n", 0, "Matrix dimension (prompted when omitted).")
	fs.IntVar(&config.Size, "size", 0, "Alias for -n.")
	fs.IntVar(&config.MaxSize, "max-size", DefaultMaxSize, "Largest accepted matrix dimension.")
	fs.IntVar(&config.Workers, "workers", 0, "Parallel worker count (0 = calibration profile or number of CPUs).")
	fs.IntVar(&config.Workers, "w", 0, "Alias for --workers.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, fmt.Sprintf("Strategies to run: both, all, or one of %s.", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Deadline for the whole run (e.g. 30s, 5m).")
	fs.Uint64Var(&config.Seed, "seed", 0, "Random seed for the operands (0 = time based).")
	fs.BoolVar(&config.Quantize, "quantize", false, "Generate values that are multiples of 0.001.")
	fs.StringVar(&config.LogFile, "log", DefaultLogFile, "Timing log to append to (empty disables).")
	fs.BoolVar(&config.Print, "print", false, "Print the operands and the product.")
	fs.BoolVar(&config.Print, "p", false, "Alias for --print.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only '<size> <parallel> <sequential>'.")
	fs.BoolVar(&config.Quiet, "q", false, "Alias for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Alias for --verbose.")
	fs.StringVar(&sizes, "sizes", "", "Comma-separated dimensions to sweep (e.g. 64,128,256).")
	fs.BoolVar(&config.TUI, "tui", false, "Run the sweep in the interactive dashboard.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Find the fastest worker count and save a profile.")
	fs.IntVar(&config.CalibrationSize, "calibration-size", DefaultCalibrationSize, "Matrix dimension used by --calibrate.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.matbench_calibration.json).")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Refuse runs whose estimated memory exceeds this (e.g. 512M, 4G).")
	fs.StringVar(&config.GCMode, "gc", DefaultGCMode, "Garbage collector control during runs: auto, aggressive, disabled.")
	fs.StringVar(&config.LogFormat, "log-format", DefaultLogFormat, "Diagnostic log encoding on stderr: console or json.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags]\n\nBenchmarks parallel against sequential square matrix multiplication.\n\nFlags:\n", programName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %v", fs.Args())
	}

	applyEnvOverrides(&config, fs, &sizes)

	parsed, err := ParseSizes(sizes)
	if err != nil {
		return AppConfig{}, err
	}
	config.Sizes = parsed
	if config.TUI && len(config.Sizes) == 0 && config.Size > 0 {
		config.Sizes = []int{config.Size}
	}

	if err := config.Validate(availableAlgos); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// DefaultSweep is the size list used by --tui when neither --sizes nor -n is
// given.
var DefaultSweep = []int{64, 128, 256, 512}

// CheckSize validates a dimension obtained after parsing, such as one read
// from the interactive prompt.
func (c AppConfig) CheckSize(size int) error {
	if size <= 0 {
		return apperrors.NewConfigError("matrix size must be positive, got %d", size)
	}
	if size > c.MaxSize {
		return apperrors.SizeLimitError{Requested: size, Max: c.MaxSize}
	}
	return nil
}
