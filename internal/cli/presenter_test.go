package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/orchestration"
)

func product(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows([][]float64{{19, 22}, {43, 50}})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	m := product(t)
	results := []orchestration.BenchmarkResult{
		{Name: "parallel", Result: m, Duration: time.Second},
		{Name: "sequential", Result: m, Duration: 4 * time.Second},
		{Name: "gonum", Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()

	for _, want := range []string{"Comparison Summary", "Strategy", "GFLOPS", "Speedup", "4.00x", "1.00x", "✅ Success", "❌ Failure (boom)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPresentComparisonTableWithoutBaseline(t *testing.T) {
	t.Parallel()
	results := []orchestration.BenchmarkResult{{Name: "parallel", Result: product(t), Duration: 0}}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	if !strings.Contains(buf.String(), "< 1µs") {
		t.Errorf("zero duration should render as < 1µs:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "x ") {
		t.Errorf("no speedup expected without a sequential run:\n%s", buf.String())
	}
}

func TestPresentResult(t *testing.T) {
	t.Parallel()
	m := product(t)
	all := []orchestration.BenchmarkResult{
		{Name: "parallel", Result: m, Duration: 500 * time.Millisecond},
		{Name: "sequential", Result: m, Duration: time.Second},
	}
	opts := orchestration.PresentationOptions{Size: 2, Workers: 4, Verbose: true, PrintMatrix: true}

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentResult(all[0], all, opts, &buf)
	out := buf.String()

	for _, want := range []string{
		"Matrix size: 2×2",
		"Parallel (4 workers): 0.500000 s",
		"Sequential:           1.000000 s",
		"Speedup:              2.00x",
		"Fastest strategy: parallel",
		"Floating-point operations: 16",
		"19.000\t22.000\t\n43.000\t50.000\t\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("result missing %q:\n%s", want, out)
		}
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	code := CLIResultPresenter{}.HandleError(apperrors.IOError{Path: "x", Cause: errors.New("denied")}, 0, &buf)
	if code != apperrors.ExitErrorIO {
		t.Errorf("code = %d, want %d", code, apperrors.ExitErrorIO)
	}
	if !strings.Contains(buf.String(), "denied") {
		t.Errorf("diagnostic missing cause: %q", buf.String())
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(2048, 1<<20, 3, 0, &buf)
	out := buf.String()
	for _, want := range []string{"2.0 KiB", "1.0 MiB", "GC cycles:       3", "GC disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}
