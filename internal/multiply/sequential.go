package multiply

import (
	"context"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/progress"
)

// Sequential multiplies on the calling goroutine with the textbook i, j, k
// loop. It is the timing baseline and the correctness reference.
type Sequential struct{}

var _ Multiplier = Sequential{}

// Name implements Multiplier.
func (Sequential) Name() string { return "sequential" }

// Multiply implements Multiplier. The context is polled once per row.
func (Sequential) Multiply(ctx context.Context, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	n := a.Size()
	result, err := matrix.New(n)
	if err != nil {
		return nil, err
	}
	rows := progress.NewRowCounter(n, opts.Progress)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		computeRow(result.Row(i), a.Row(i), b)
		rows.Add(1)
	}
	return result, nil
}
