package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleZerolog builds a console-formatted zerolog logger tagged with a
// component field. verbose lowers the level to debug. Color follows NO_COLOR.
func NewConsoleZerolog(w io.Writer, component string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: noColor()}
	return zerolog.New(cw).Level(level).With().Timestamp().Str("component", component).Logger()
}

// NewJSONZerolog builds a JSON logger tagged with a component field, for
// output that is consumed by tools rather than read.
func NewJSONZerolog(w io.Writer, component string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", component).Logger()
}

func noColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
