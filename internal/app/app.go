// Package app wires configuration, strategies, recording and presentation
// into the matbench command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/matbench/internal/calibration"
	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/logging"
	"github.com/agbru/matbench/internal/metrics"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/record"
	"github.com/agbru/matbench/internal/tui"
	"github.com/agbru/matbench/internal/ui"
)

// Application represents the matbench application instance.
type Application struct {
	Config    config.AppConfig
	Factory   multiply.Factory
	Recorder  record.Recorder
	Logger    zerolog.Logger
	In        io.Reader
	ErrWriter io.Writer

	loggerSet bool
	metrics   *metrics.BenchmarkMetrics
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom strategy factory for the application.
func WithFactory(f multiply.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithRecorder replaces the timing log recorder selected by --log.
func WithRecorder(r record.Recorder) AppOption {
	return func(a *Application) { a.Recorder = r }
}

// WithInput sets the reader used by the size prompt. Defaults to os.Stdin.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// WithLogger replaces the console logger built from --verbose.
func WithLogger(l zerolog.Logger) AppOption {
	return func(a *Application) {
		a.Logger = l
		a.loggerSet = true
	}
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = multiply.NewDefaultFactory()
	}

	programName := "matbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	}
	app.Config = cfg

	if app.Recorder == nil {
		if cfg.LogFile != "" {
			app.Recorder = record.NewFileRecorder(cfg.LogFile)
		} else {
			app.Recorder = record.NopRecorder{}
		}
	}
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(false)
	if !a.loggerSet {
		switch {
		case a.Config.TUI:
			a.Logger = zerolog.Nop()
		case a.Config.LogFormat == "json":
			a.Logger = logging.NewJSONZerolog(a.ErrWriter, "matbench", a.Config.Verbose)
		default:
			a.Logger = logging.NewConsoleZerolog(a.ErrWriter, "matbench", a.Config.Verbose)
		}
	}
	a.metrics = metrics.NewBenchmarkMetrics()

	if a.Config.Calibrate {
		return calibration.RunCalibration(ctx, a.Config, out, a.Logger)
	}

	var code int
	switch {
	case a.Config.TUI:
		code = a.runTUI(ctx)
	case a.Config.IsSweep():
		code = a.runSweep(ctx, out)
	default:
		code = a.runSingle(ctx, out)
	}
	return a.writeMetrics(code)
}

// lifecycle bounds ctx by --timeout and cancels it on SIGINT or SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, func()) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

func (a *Application) reporter() orchestration.ProgressReporter {
	if a.Config.Quiet {
		return orchestration.NullProgressReporter{}
	}
	return cli.CLIProgressReporter{}
}

// runSingle benchmarks one size, prompting for it when -n was omitted.
func (a *Application) runSingle(ctx context.Context, out io.Writer) int {
	size := a.Config.Size
	if size == 0 {
		promptOut := out
		if a.Config.Quiet {
			promptOut = a.ErrWriter
		}
		s, err := cli.PromptSize(a.In, promptOut, a.Config.CheckSize)
		if err != nil {
			return apperrors.HandleBenchmarkError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		size = s
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	return a.benchmarkSize(ctx, size, a.reporter(), cli.CLIResultPresenter{}, out)
}

// runSweep benchmarks every --sizes entry in order. It returns the first
// non-zero exit code; a timeout or cancellation stops the sweep.
func (a *Application) runSweep(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	reporter := a.reporter()
	sizes := a.Config.Sizes
	exitCode := apperrors.ExitSuccess
	for i, size := range sizes {
		if ctx.Err() != nil {
			break
		}
		if !a.Config.Quiet {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s=== Size %d×%d (%d/%d) ===%s\n", ui.ColorBold(), size, size, i+1, len(sizes), ui.ColorReset())
		}
		code := a.benchmarkSize(ctx, size, reporter, cli.CLIResultPresenter{}, out)
		if code != apperrors.ExitSuccess && exitCode == apperrors.ExitSuccess {
			exitCode = code
		}
		if code == apperrors.ExitErrorTimeout || code == apperrors.ExitErrorCanceled {
			break
		}
	}
	if exitCode == apperrors.ExitSuccess && ctx.Err() != nil {
		exitCode = apperrors.ExitCodeFor(ctx.Err())
	}
	return exitCode
}

// runTUI launches the interactive sweep dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	sizes := a.Config.Sizes
	if len(sizes) == 0 {
		sizes = config.DefaultSweep
	}
	bench := func(ctx context.Context, size int, reporter orchestration.ProgressReporter, presenter orchestration.ResultPresenter) int {
		return a.benchmarkSize(ctx, size, reporter, presenter, io.Discard)
	}
	return tui.Run(ctx, sizes, bench, Version)
}

// writeMetrics writes --metrics-file after the run. A write failure turns a
// successful run into an I/O error.
func (a *Application) writeMetrics(code int) int {
	if a.Config.MetricsFile == "" {
		return code
	}
	if err := a.metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
		ioErr := apperrors.IOError{Path: a.Config.MetricsFile, Cause: err}
		a.Logger.Error().Err(err).Str("path", a.Config.MetricsFile).Msg("metrics file not written")
		if code == apperrors.ExitSuccess {
			return apperrors.HandleBenchmarkError(ioErr, 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		return code
	}
	a.Logger.Debug().Str("path", a.Config.MetricsFile).Msg("metrics written")
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
