// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the aliases of a flag were explicitly set.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an environment key (without the MATBENCH_ prefix) to the
// flag aliases it stands in for and a function applying its value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(c *AppConfig, sizes *string, v string)
}

// envOverrides is the declarative table of all environment variable
// overrides. Unparsable values are ignored.
var envOverrides = []envOverride{
	// Numeric overrides
	{"SIZE", []string{"n", "size"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Size = parsed
		}
	}},
	{"MAX_SIZE", []string{"max-size"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxSize = parsed
		}
	}},
	{"WORKERS", []string{"workers", "w"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"SEED", []string{"seed"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	{"CALIBRATION_SIZE", []string{"calibration-size"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.CalibrationSize = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"ALGO", []string{"algo"}, func(c *AppConfig, _ *string, v string) { c.Algo = v }},
	{"LOG", []string{"log"}, func(c *AppConfig, _ *string, v string) { c.LogFile = v }},
	{"SIZES", []string{"sizes"}, func(_ *AppConfig, sizes *string, v string) { *sizes = v }},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, _ *string, v string) {
		c.CalibrationProfile = v
	}},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, _ *string, v string) { c.MetricsFile = v }},
	{"MEMORY_LIMIT", []string{"memory-limit"}, func(c *AppConfig, _ *string, v string) { c.MemoryLimit = v }},
	{"GC", []string{"gc"}, func(c *AppConfig, _ *string, v string) { c.GCMode = v }},
	{"LOG_FORMAT", []string{"log-format"}, func(c *AppConfig, _ *string, v string) { c.LogFormat = v }},

	// Boolean overrides
	{"QUANTIZE", []string{"quantize"}, func(c *AppConfig, _ *string, v string) {
		c.Quantize = parseBoolEnv(v, c.Quantize)
	}},
	{"PRINT", []string{"print", "p"}, func(c *AppConfig, _ *string, v string) {
		c.Print = parseBoolEnv(v, c.Print)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, _ *string, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, _ *string, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, _ *string, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"CALIBRATE", []string{"calibrate"}, func(c *AppConfig, _ *string, v string) {
		c.Calibrate = parseBoolEnv(v, c.Calibrate)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with MATBENCH_):
//   - SIZE, MAX_SIZE, WORKERS, SEED, CALIBRATION_SIZE, TIMEOUT, ALGO, LOG,
//     SIZES, CALIBRATION_PROFILE, METRICS_FILE, MEMORY_LIMIT, GC, LOG_FORMAT,
//     QUANTIZE, PRINT, QUIET, VERBOSE, TUI, CALIBRATE
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet, sizes *string) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val, ok := os.LookupEnv(EnvPrefix + o.envKey); ok && (val != "" || o.envKey == "LOG") {
			o.apply(config, sizes, val)
		}
	}
}
