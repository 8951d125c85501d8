package orchestration

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
)

// MockResultPresenter records which presenter methods were called.
type MockResultPresenter struct {
	tableRows   int
	resultShown bool
}

func (m *MockResultPresenter) PresentComparisonTable(results []BenchmarkResult, _ io.Writer) {
	m.tableRows = len(results)
}

func (m *MockResultPresenter) PresentResult(BenchmarkResult, []BenchmarkResult, PresentationOptions, io.Writer) {
	m.resultShown = true
}

func (*MockResultPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	return apperrors.ExitCodeFor(err)
}

// MockMultiplier is a Multiplier whose behavior is supplied by a function.
type MockMultiplier struct {
	NameValue    string
	MultiplyFunc func(ctx context.Context, a, b *matrix.Matrix, opts multiply.Options) (*matrix.Matrix, error)
}

func (m *MockMultiplier) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *MockMultiplier) Multiply(ctx context.Context, a, b *matrix.Matrix, opts multiply.Options) (*matrix.Matrix, error) {
	if m.MultiplyFunc != nil {
		return m.MultiplyFunc(ctx, a, b, opts)
	}
	return matrix.New(a.Size())
}

func fixedResult(rows [][]float64) func(context.Context, *matrix.Matrix, *matrix.Matrix, multiply.Options) (*matrix.Matrix, error) {
	return func(context.Context, *matrix.Matrix, *matrix.Matrix, multiply.Options) (*matrix.Matrix, error) {
		return matrix.FromRows(rows)
	}
}

func operands(t *testing.T, size int) (*matrix.Matrix, *matrix.Matrix) {
	t.Helper()
	rng := matrix.NewRand(11)
	a, err := matrix.Random(size, rng, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := matrix.Random(size, rng, false)
	if err != nil {
		t.Fatal(err)
	}
	return a, b
}

func TestExecuteBenchmarkRealStrategies(t *testing.T) {
	t.Parallel()
	a, b := operands(t, 24)
	ms, err := GetMultipliersToRun(AlgoAll, multiply.NewDefaultFactory())
	if err != nil {
		t.Fatal(err)
	}

	results := ExecuteBenchmark(context.Background(), ms, a, b, multiply.Options{Workers: 3}, NullProgressReporter{}, io.Discard)

	wantOrder := []string{"parallel", "sequential", "gonum"}
	if len(results) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(results), len(wantOrder))
	}
	for i, name := range wantOrder {
		if results[i].Name != name {
			t.Errorf("result %d is %q, want %q", i, results[i].Name, name)
		}
		if results[i].Err != nil {
			t.Errorf("%s: %v", name, results[i].Err)
		}
	}
	if err := CheckConsistency(results); err != nil {
		t.Errorf("strategies disagree: %v", err)
	}
}

func TestExecuteBenchmarkRunsSequentially(t *testing.T) {
	t.Parallel()
	a, b := operands(t, 2)
	running := make(chan struct{}, 1)
	overlap := false
	slow := func(context.Context, *matrix.Matrix, *matrix.Matrix, multiply.Options) (*matrix.Matrix, error) {
		select {
		case running <- struct{}{}:
		default:
			overlap = true
		}
		time.Sleep(10 * time.Millisecond)
		<-running
		return matrix.New(2)
	}
	ms := []multiply.Multiplier{
		&MockMultiplier{NameValue: "one", MultiplyFunc: slow},
		&MockMultiplier{NameValue: "two", MultiplyFunc: slow},
	}
	ExecuteBenchmark(context.Background(), ms, a, b, multiply.Options{}, NullProgressReporter{}, io.Discard)
	if overlap {
		t.Error("strategies ran concurrently")
	}
}

func TestExecuteBenchmarkWrapsErrors(t *testing.T) {
	t.Parallel()
	a, b := operands(t, 2)
	boom := errors.New("boom")
	ms := []multiply.Multiplier{&MockMultiplier{
		NameValue: "broken",
		MultiplyFunc: func(context.Context, *matrix.Matrix, *matrix.Matrix, multiply.Options) (*matrix.Matrix, error) {
			return nil, boom
		},
	}}
	results := ExecuteBenchmark(context.Background(), ms, a, b, multiply.Options{}, NullProgressReporter{}, io.Discard)

	var benchErr apperrors.BenchmarkError
	if !errors.As(results[0].Err, &benchErr) || benchErr.Strategy != "broken" {
		t.Fatalf("error = %v, want BenchmarkError for strategy broken", results[0].Err)
	}
	if !errors.Is(results[0].Err, boom) {
		t.Error("cause must be preserved")
	}
}

func TestExecuteBenchmarkSkipsAfterCancel(t *testing.T) {
	t.Parallel()
	a, b := operands(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	called := false
	ms := []multiply.Multiplier{
		&MockMultiplier{NameValue: "first", MultiplyFunc: func(context.Context, *matrix.Matrix, *matrix.Matrix, multiply.Options) (*matrix.Matrix, error) {
			cancel()
			return nil, context.Canceled
		}},
		&MockMultiplier{NameValue: "second", MultiplyFunc: func(context.Context, *matrix.Matrix, *matrix.Matrix, multiply.Options) (*matrix.Matrix, error) {
			called = true
			return matrix.New(2)
		}},
	}
	results := ExecuteBenchmark(ctx, ms, a, b, multiply.Options{}, NullProgressReporter{}, io.Discard)
	if called {
		t.Error("second strategy ran after cancellation")
	}
	if !errors.Is(results[1].Err, context.Canceled) {
		t.Errorf("second result error = %v, want context.Canceled", results[1].Err)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	ok := [][]float64{{1, 2}, {3, 4}}
	okM, _ := matrix.FromRows(ok)
	offM, _ := matrix.FromRows([][]float64{{1, 2}, {3, 4.001}})
	nearM, _ := matrix.FromRows([][]float64{{1, 2}, {3, 4 + 1e-12}})

	tests := []struct {
		name           string
		results        []BenchmarkResult
		expectedStatus int
		wantResult     bool
	}{
		{
			name: "All success",
			results: []BenchmarkResult{
				{Name: "parallel", Result: okM, Duration: time.Millisecond},
				{Name: "sequential", Result: okM, Duration: 2 * time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantResult:     true,
		},
		{
			name: "Within tolerance",
			results: []BenchmarkResult{
				{Name: "parallel", Result: okM, Duration: time.Millisecond},
				{Name: "gonum", Result: nearM, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantResult:     true,
		},
		{
			name: "Mismatch",
			results: []BenchmarkResult{
				{Name: "parallel", Result: okM, Duration: time.Millisecond},
				{Name: "sequential", Result: offM, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []BenchmarkResult{
				{Name: "parallel", Err: errors.New("fail")},
				{Name: "sequential", Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "Deadline",
			results: []BenchmarkResult{
				{Name: "parallel", Err: apperrors.BenchmarkError{Strategy: "parallel", Cause: context.DeadlineExceeded}},
				{Name: "sequential", Err: context.DeadlineExceeded},
			},
			expectedStatus: apperrors.ExitErrorTimeout,
		},
		{
			name: "Partial failure",
			results: []BenchmarkResult{
				{Name: "parallel", Result: okM, Duration: time.Millisecond},
				{Name: "sequential", Err: apperrors.IOError{Path: "x", Cause: errors.New("fail")}},
			},
			expectedStatus: apperrors.ExitErrorIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &MockResultPresenter{}
			var out strings.Builder
			status := AnalyzeComparisonResults(tt.results, PresentationOptions{}, p, &out)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (output %q)", tt.expectedStatus, status, out.String())
			}
			if p.tableRows != len(tt.results) {
				t.Errorf("table showed %d rows, want %d", p.tableRows, len(tt.results))
			}
			if p.resultShown != tt.wantResult {
				t.Errorf("resultShown = %v, want %v", p.resultShown, tt.wantResult)
			}
		})
	}
}

func TestAnalyzeComparisonResultsDoesNotReorderInput(t *testing.T) {
	t.Parallel()
	m, _ := matrix.New(1)
	results := []BenchmarkResult{
		{Name: "parallel", Result: m, Duration: 3 * time.Second},
		{Name: "sequential", Result: m, Duration: time.Second},
	}
	AnalyzeComparisonResults(results, PresentationOptions{}, &MockResultPresenter{}, io.Discard)
	if results[0].Name != "parallel" {
		t.Error("input slice was reordered")
	}
}

func TestFindResult(t *testing.T) {
	t.Parallel()
	results := []BenchmarkResult{{Name: "parallel"}, {Name: "sequential", Duration: time.Second}}
	r, ok := FindResult(results, "sequential")
	if !ok || r.Duration != time.Second {
		t.Errorf("FindResult(sequential) = %+v, %v", r, ok)
	}
	if _, ok := FindResult(results, "gonum"); ok {
		t.Error("FindResult must report missing strategies")
	}
}

func TestGetMultipliersToRun(t *testing.T) {
	t.Parallel()
	factory := multiply.NewDefaultFactory()
	tests := []struct {
		algo string
		want []string
	}{
		{"", []string{"parallel", "sequential"}},
		{AlgoBoth, []string{"parallel", "sequential"}},
		{AlgoAll, []string{"parallel", "sequential", "gonum"}},
		{"gonum", []string{"gonum"}},
	}
	for _, tt := range tests {
		ms, err := GetMultipliersToRun(tt.algo, factory)
		if err != nil {
			t.Fatalf("%q: %v", tt.algo, err)
		}
		if len(ms) != len(tt.want) {
			t.Fatalf("%q: got %d strategies, want %d", tt.algo, len(ms), len(tt.want))
		}
		for i := range ms {
			if ms[i].Name() != tt.want[i] {
				t.Errorf("%q[%d] = %s, want %s", tt.algo, i, ms[i].Name(), tt.want[i])
			}
		}
	}
	if _, err := GetMultipliersToRun("strassen", factory); err == nil {
		t.Error("unknown strategy must fail")
	}
}
