// Package matrix provides the square, row-major float64 matrix shared by
// every multiplication strategy. A Matrix owns a single contiguous buffer of
// size*size values; rows are views into it, so a matrix can never be ragged.
package matrix

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/matbench/internal/errors"
)

var (
	// ErrNegativeSize is returned when a dimension below zero is requested.
	ErrNegativeSize = errors.New("matrix: size must be >= 0")
	// ErrRagged is returned by FromRows when the input is not square.
	ErrRagged = errors.New("matrix: rows must all have length equal to the row count")
	// ErrDimensionMismatch is returned when two matrices of different size are combined.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
)

// Matrix is a square matrix of float64 values stored in row-major order.
type Matrix struct {
	size int
	data []float64
}

// Allocate returns a zeroed buffer of n float64 values. Overflowing or
// otherwise impossible requests are reported as apperrors.AllocationError
// instead of crashing the process.
func Allocate(what string, n int) (buf []float64, err error) {
	if n < 0 {
		return nil, apperrors.AllocationError{What: what, Elements: n, Cause: ErrNegativeSize}
	}
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = apperrors.AllocationError{What: what, Elements: n, Cause: fmt.Errorf("%v", r)}
		}
	}()
	return make([]float64, n), nil
}

// Elements returns size*size, or an AllocationError if the product overflows.
func Elements(what string, size int) (int, error) {
	if size < 0 {
		return 0, ErrNegativeSize
	}
	if size > 0 && size > math.MaxInt/size {
		return 0, apperrors.AllocationError{What: what, Elements: math.MaxInt}
	}
	return size * size, nil
}

// New creates a zero-filled size×size matrix.
func New(size int) (*Matrix, error) {
	n, err := Elements("matrix", size)
	if err != nil {
		return nil, err
	}
	data, err := Allocate("matrix", n)
	if err != nil {
		return nil, err
	}
	return &Matrix{size: size, data: data}, nil
}

// Identity creates the size×size identity matrix.
func Identity(size int) (*Matrix, error) {
	m, err := New(size)
	if err != nil {
		return nil, err
	}
	for i := 0; i < size; i++ {
		m.data[i*size+i] = 1
	}
	return m, nil
}

// FromRows copies a square [][]float64 into a new Matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	size := len(rows)
	for i, r := range rows {
		if len(r) != size {
			return nil, fmt.Errorf("row %d has %d elements, want %d: %w", i, len(r), size, ErrRagged)
		}
	}
	m, err := New(size)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		copy(m.data[i*size:(i+1)*size], r)
	}
	return m, nil
}

// NewRand returns a PCG-backed generator. A zero seed derives one from the
// current time.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Random creates a size×size matrix with values in [0, 1). When quantize is
// set, values are multiples of 0.001.
func Random(size int, rng *rand.Rand, quantize bool) (*Matrix, error) {
	m, err := New(size)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		if quantize {
			m.data[i] = float64(rng.IntN(1000)) / 1000.0
		} else {
			m.data[i] = rng.Float64()
		}
	}
	return m, nil
}

// Size returns the dimension of the matrix.
func (m *Matrix) Size() int { return m.size }

// At returns the element at (i, j). It panics if the index is out of range.
func (m *Matrix) At(i, j int) float64 {
	m.check(i, j)
	return m.data[i*m.size+j]
}

// Set assigns v to the element at (i, j). It panics if the index is out of range.
func (m *Matrix) Set(i, j int, v float64) {
	m.check(i, j)
	m.data[i*m.size+j] = v
}

func (m *Matrix) check(i, j int) {
	if uint(i) >= uint(m.size) || uint(j) >= uint(m.size) {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for size %d", i, j, m.size))
	}
}

// Row returns row i as a slice aliasing the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	if uint(i) >= uint(m.size) {
		panic(fmt.Sprintf("matrix: row %d out of range for size %d", i, m.size))
	}
	return m.data[i*m.size : (i+1)*m.size : (i+1)*m.size]
}

// Rows returns a deep copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.size)
	for i := range out {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{size: m.size, data: append([]float64(nil), m.data...)}
}

// Bytes returns the memory held by the matrix buffer.
func (m *Matrix) Bytes() uint64 {
	return uint64(len(m.data)) * 8
}

// MaxAbsDiff returns the largest element-wise absolute difference between m
// and o.
func (m *Matrix) MaxAbsDiff(o *Matrix) (float64, error) {
	if m.size != o.size {
		return 0, fmt.Errorf("%d vs %d: %w", m.size, o.size, ErrDimensionMismatch)
	}
	var worst float64
	for i, v := range m.data {
		d := math.Abs(v - o.data[i])
		if d > worst || math.IsNaN(d) {
			worst = d
		}
	}
	return worst, nil
}

// EqualWithin reports whether m and o have the same size and every pair of
// elements differs by at most tol.
func (m *Matrix) EqualWithin(o *Matrix, tol float64) bool {
	d, err := m.MaxAbsDiff(o)
	return err == nil && d <= tol
}

// ToDense copies m into a gonum dense matrix. It panics for size 0, which
// gonum does not represent.
func (m *Matrix) ToDense() *mat.Dense {
	return mat.NewDense(m.size, m.size, append([]float64(nil), m.data...))
}

// FromDense copies a square gonum matrix into a new Matrix.
func FromDense(d mat.Matrix) (*Matrix, error) {
	r, c := d.Dims()
	if r != c {
		return nil, fmt.Errorf("%dx%d: %w", r, c, ErrRagged)
	}
	m, err := New(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = d.At(i, j)
		}
	}
	return m, nil
}

// Fprint writes m to w, one row per line, three decimals per value,
// tab-separated.
func Fprint(w io.Writer, m *Matrix) error {
	for i := 0; i < m.size; i++ {
		for _, v := range m.Row(i) {
			if _, err := fmt.Fprintf(w, "%.3f\t", v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
