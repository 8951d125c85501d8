package config

import (
	"errors"
	"flag"
	"io"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
)

var algos = []string{"gonum", "parallel", "sequential"}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("matbench", nil, io.Discard, algos)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 0 || cfg.MaxSize != DefaultMaxSize || cfg.Algo != DefaultAlgo ||
		cfg.Timeout != DefaultTimeout || cfg.LogFile != DefaultLogFile ||
		cfg.CalibrationSize != DefaultCalibrationSize || cfg.GCMode != DefaultGCMode {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.IsSweep() {
		t.Error("default configuration must not be a sweep")
	}
}

func TestParseConfigFlags(t *testing.T) {
	args := []string{"-n", "128", "--workers", "4", "--algo", "all", "--timeout", "30s",
		"--seed", "7", "--quantize", "-p", "-v", "--log", "", "--metrics-file", "m.prom"}
	cfg, err := ParseConfig("matbench", args, io.Discard, algos)
	if err != nil {
		t.Fatal(err)
	}
	want := AppConfig{
		Size: 128, MaxSize: DefaultMaxSize, Workers: 4, Algo: "all", Timeout: 30 * time.Second,
		Seed: 7, Quantize: true, Print: true, Verbose: true, LogFile: "", MetricsFile: "m.prom",
		CalibrationSize: DefaultCalibrationSize, GCMode: DefaultGCMode, LogFormat: DefaultLogFormat,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("got %+v\nwant %+v", cfg, want)
	}
}

func TestParseConfigAliases(t *testing.T) {
	cfg, err := ParseConfig("matbench", []string{"--size", "9", "-w", "2", "-q"}, io.Discard, algos)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 9 || cfg.Workers != 2 || !cfg.Quiet {
		t.Errorf("aliases not applied: %+v", cfg)
	}
}

func TestParseConfigSizeLimit(t *testing.T) {
	_, err := ParseConfig("matbench", []string{"-n", "20000"}, io.Discard, algos)
	var sizeErr apperrors.SizeLimitError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error = %v, want SizeLimitError", err)
	}
	if sizeErr.Requested != 20000 || sizeErr.Max != DefaultMaxSize {
		t.Errorf("SizeLimitError = %+v", sizeErr)
	}
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), apperrors.ExitErrorConfig)
	}

	if _, err := ParseConfig("matbench", []string{"-n", "20000", "--max-size", "20000"}, io.Discard, algos); err != nil {
		t.Errorf("raised --max-size must accept the size: %v", err)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--nope"}},
		{"negative size", []string{"-n", "-3"}},
		{"negative workers", []string{"--workers", "-1"}},
		{"unknown algo", []string{"--algo", "strassen"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"bad sizes", []string{"--sizes", "64,abc"}},
		{"sweep over limit", []string{"--sizes", "64,20000"}},
		{"tui and quiet", []string{"--tui", "--quiet"}},
		{"bad gc mode", []string{"--gc", "sometimes"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"positional argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("matbench", tt.args, io.Discard, algos)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d, want %d (err %v)", code, apperrors.ExitErrorConfig, err)
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	_, err := ParseConfig("matbench", []string{"--help"}, io.Discard, algos)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("error = %v, want flag.ErrHelp", err)
	}
}

func TestParseSizes(t *testing.T) {
	got, err := ParseSizes(" 64, 128 ,,256 ")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{64, 128, 256}) {
		t.Errorf("ParseSizes = %v", got)
	}
	if got, _ := ParseSizes(""); got != nil {
		t.Errorf("empty input = %v, want nil", got)
	}
}

func TestTUIUsesSizeAsSweep(t *testing.T) {
	cfg, err := ParseConfig("matbench", []string{"--tui", "-n", "32"}, io.Discard, algos)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Sizes, []int{32}) {
		t.Errorf("Sizes = %v, want [32]", cfg.Sizes)
	}
}

func TestCheckSize(t *testing.T) {
	cfg := AppConfig{MaxSize: 100}
	if err := cfg.CheckSize(100); err != nil {
		t.Errorf("CheckSize(100) = %v", err)
	}
	var sizeErr apperrors.SizeLimitError
	if err := cfg.CheckSize(101); !errors.As(err, &sizeErr) {
		t.Errorf("CheckSize(101) = %v, want SizeLimitError", err)
	}
	var cfgErr apperrors.ConfigError
	if err := cfg.CheckSize(0); !errors.As(err, &cfgErr) {
		t.Errorf("CheckSize(0) = %v, want ConfigError", err)
	}
}
