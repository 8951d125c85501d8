package multiply

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/progress"
)

// Parallel is the row-partitioned multiplication engine.
//
// Each call plans the row ranges, allocates a zeroed shared result and a
// fresh Barrier, and starts one goroutine per range. A worker runs in three
// phases:
//
//  1. compute: rows of its range are written into a private accumulator;
//  2. barrier: it waits until every worker has finished computing;
//  3. merge: it adds its accumulator into the shared result, touching only
//     the rows it owns.
//
// Because merge writes are confined to disjoint row ranges the shared result
// needs no lock. Multiply returns only after every worker has been joined.
type Parallel struct{}

var _ Multiplier = Parallel{}

// Name implements Multiplier.
func (Parallel) Name() string { return "parallel" }

// Multiply implements Multiplier. A cancelled or expired ctx releases workers
// blocked at the barrier and its error is returned.
func (Parallel) Multiply(ctx context.Context, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	n := a.Size()
	result, err := matrix.New(n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return result, nil
	}

	workers := ResolveWorkers(opts.Workers)
	ranges := Plan(n, workers)
	barrier, err := NewBarrier(workers)
	if err != nil {
		return nil, err
	}
	rows := progress.NewRowCounter(n, opts.Progress)
	log := opts.Logger

	log.Debug().Int("size", n).Int("workers", workers).Msg("starting parallel multiplication")

	g, gctx := errgroup.WithContext(ctx)
	for id, r := range ranges {
		g.Go(func() error {
			log.Debug().Int("worker", id).Int("start", r.Start).Int("end", r.End).Msg("worker started")
			acc, err := newAccumulator(r, n)
			if err != nil {
				return err
			}
			if err := acc.compute(gctx, a, b, rows); err != nil {
				return err
			}
			if err := barrier.Wait(gctx); err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
			acc.mergeInto(result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// accumulator is a worker's private slice of the product. Only the owned
// rows are backed by storage: every other row of a full size×size local
// product would stay zero and is never merged, so it is elided. row takes
// absolute row numbers and translates them to the local offset.
type accumulator struct {
	owned PartitionRange
	size  int
	data  []float64
}

func newAccumulator(r PartitionRange, size int) (*accumulator, error) {
	data, err := matrix.Allocate("local accumulator", r.Len()*size)
	if err != nil {
		return nil, err
	}
	return &accumulator{owned: r, size: size, data: data}, nil
}

// row returns owned row i for writing.
func (acc *accumulator) row(i int) []float64 {
	off := (i - acc.owned.Start) * acc.size
	return acc.data[off : off+acc.size : off+acc.size]
}

func (acc *accumulator) compute(ctx context.Context, a, b *matrix.Matrix, rows *progress.RowCounter) error {
	for i := acc.owned.Start; i < acc.owned.End; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		computeRow(acc.row(i), a.Row(i), b)
		rows.Add(1)
	}
	return nil
}

func (acc *accumulator) mergeInto(result *matrix.Matrix) {
	for i := acc.owned.Start; i < acc.owned.End; i++ {
		dst := result.Row(i)
		for j, v := range acc.row(i) {
			dst[j] += v
		}
	}
}
