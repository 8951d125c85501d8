// Package multiply implements the matrix multiplication strategies that
// matbench benchmarks against each other.
//
// # Strategies
//
//   - Sequential: the reference i, j, k triple loop on the calling goroutine.
//   - Parallel: the row-partitioned engine. Rows of the result are split into
//     contiguous ranges (see Plan), one goroutine per range computes into a
//     private accumulator, all workers meet at a per-call Barrier, then each
//     worker merges its own rows into the shared result.
//   - Gonum: BLAS-backed multiplication through gonum's mat.Dense, used as an
//     independent reference.
//
// Sequential and Parallel share one row kernel and sum over k in ascending
// order, so their results are bit-identical for every worker count.
//
// # Usage
//
//	f := multiply.NewDefaultFactory()
//	m, _ := f.Get("parallel")
//	c, err := m.Multiply(ctx, a, b, multiply.Options{Workers: 8})
package multiply
