package multiply

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/agbru/matbench/internal/matrix"
)

// Gonum multiplies through gonum's mat.Dense, which dispatches to the
// configured BLAS implementation.
type Gonum struct{}

var _ Multiplier = Gonum{}

// Name implements Multiplier.
func (Gonum) Name() string { return "gonum" }

// Multiply implements Multiplier. The call is not interruptible once the BLAS
// routine has started.
func (Gonum) Multiply(ctx context.Context, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.Size() == 0 {
		return matrix.New(0)
	}
	var c mat.Dense
	c.Mul(a.ToDense(), b.ToDense())
	if opts.Progress != nil {
		opts.Progress(1)
	}
	return matrix.FromDense(&c)
}
