package multiply

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/progress"
)

// Options configures a single multiplication.
type Options struct {
	// Workers is the number of parallel workers. Zero selects
	// runtime.NumCPU(); negative values are treated as 1. Ignored by
	// single-threaded strategies.
	Workers int
	// Logger receives debug output about partitioning and worker lifecycle.
	// The zero value discards everything.
	Logger zerolog.Logger
	// Progress, if set, receives the fraction of result rows computed.
	Progress progress.ProgressCallback
}

// Multiplier is a matrix multiplication strategy.
type Multiplier interface {
	// Name returns the registry key of the strategy.
	Name() string
	// Multiply returns a·b. Both operands must have the same size; they are
	// only read. The result is a new matrix owned by the caller.
	Multiply(ctx context.Context, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error)
}

// ResolveWorkers applies the worker-count defaults of Options.Workers.
func ResolveWorkers(workers int) int {
	switch {
	case workers == 0:
		return runtime.NumCPU()
	case workers < 0:
		return 1
	default:
		return workers
	}
}

func checkOperands(a, b *matrix.Matrix) error {
	if a == nil || b == nil {
		return fmt.Errorf("nil operand: %w", matrix.ErrDimensionMismatch)
	}
	if a.Size() != b.Size() {
		return fmt.Errorf("%dx%d times %dx%d: %w", a.Size(), a.Size(), b.Size(), b.Size(), matrix.ErrDimensionMismatch)
	}
	return nil
}

// computeRow writes row i of a·b into dst. For every column j the products
// are summed with k ascending from a zero start; Sequential and Parallel both
// go through here so their results match bit for bit.
func computeRow(dst, ai []float64, b *matrix.Matrix) {
	n := len(ai)
	for j := 0; j < n; j++ {
		var sum float64
		for k := 0; k < n; k++ {
			sum += ai[k] * b.Row(k)[j]
		}
		dst[j] = sum
	}
}
