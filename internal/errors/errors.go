package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig   = 4   // Indicates a configuration or size-limit error.
	ExitErrorResource = 5   // Indicates an allocation or synchronization failure.
	ExitErrorIO       = 6   // Indicates the timing log could not be written.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SizeLimitError reports a requested matrix dimension above the configured
// maximum. No computation is attempted when it is returned.
type SizeLimitError struct {
	// Requested is the dimension the user asked for.
	Requested int
	// Max is the configured maximum dimension.
	Max int
}

// Error returns a formatted message describing the violated limit.
func (e SizeLimitError) Error() string {
	return fmt.Sprintf("matrix size %d exceeds the maximum allowed size %d", e.Requested, e.Max)
}

// AllocationError reports that a matrix or worker buffer could not be
// allocated. It carries the buffer role and the element count requested.
type AllocationError struct {
	// What names the buffer (e.g. "input matrix", "local accumulator").
	What string
	// Elements is the number of float64 values requested.
	Elements int
	// Cause is the underlying failure, if any.
	Cause error
}

// Error returns a formatted message describing the allocation failure.
func (e AllocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("allocation of %s (%d elements) failed: %v", e.What, e.Elements, e.Cause)
	}
	return fmt.Sprintf("allocation of %s (%d elements) failed", e.What, e.Elements)
}

// Unwrap returns the underlying cause.
func (e AllocationError) Unwrap() error { return e.Cause }

// SynchronizationError reports that a synchronization primitive (the worker
// barrier) could not be initialized.
type SynchronizationError struct {
	// Primitive names the primitive that failed.
	Primitive string
	// Cause is the underlying failure.
	Cause error
}

// Error returns a formatted message describing the failure.
func (e SynchronizationError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Primitive, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SynchronizationError) Unwrap() error { return e.Cause }

// IOError reports a failure to open or write a persistent output such as the
// timing log.
type IOError struct {
	// Path is the file that could not be written.
	Path string
	// Cause is the underlying os error.
	Cause error
}

// Error returns a formatted message describing the I/O failure.
func (e IOError) Error() string {
	return fmt.Sprintf("cannot write %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e IOError) Unwrap() error { return e.Cause }

// BenchmarkError encapsulates a failed strategy run while preserving the
// original cause.
type BenchmarkError struct {
	// Strategy is the name of the multiplier that failed.
	Strategy string
	// Cause is the underlying error that triggered this error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e BenchmarkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e BenchmarkError) Unwrap() error { return e.Cause }

// TimeoutError represents a benchmark timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Is reports context.DeadlineExceeded as equivalent, so callers can test for
// either form.
func (e TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ColorProvider supplies ANSI sequences for error output. A nil provider
// produces uncolored output.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	var (
		sizeErr  SizeLimitError
		cfgErr   ConfigError
		valErr   ValidationError
		allocErr AllocationError
		syncErr  SynchronizationError
		ioErr    IOError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &sizeErr), errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.As(err, &allocErr), errors.As(err, &syncErr):
		return ExitErrorResource
	case errors.As(err, &ioErr):
		return ExitErrorIO
	default:
		return ExitErrorGeneric
	}
}

// HandleBenchmarkError writes a diagnostic for err to out and returns the
// matching exit code. duration is the elapsed time before the failure; zero
// omits it.
func HandleBenchmarkError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}
	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sThe benchmark exceeded its deadline%s", red, reset)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sThe benchmark was canceled%s", yellow, reset)
	default:
		fmt.Fprintf(out, "%sError: %v%s", red, err, reset)
	}
	if duration > 0 {
		fmt.Fprintf(out, " after %s", duration)
	}
	fmt.Fprintln(out)
	return code
}
