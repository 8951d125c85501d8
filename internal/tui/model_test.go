package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/orchestration"
)

func noopBench(context.Context, int, orchestration.ProgressReporter, orchestration.ResultPresenter) int {
	return apperrors.ExitSuccess
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func results(par, seq time.Duration) []orchestration.BenchmarkResult {
	return []orchestration.BenchmarkResult{
		{Name: "parallel", Duration: par},
		{Name: "sequential", Duration: seq},
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), []int{8}, noopBench, "dev")
	defer m.cancel()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestModel_ResultsFlowIntoTable(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{64, 128}, noopBench, "v1.0.0"))
	defer m.cancel()

	next, _ := m.Update(SizeStartedMsg{Index: 0, Size: 64})
	m = next.(Model)
	next, _ = m.Update(ProgressMsg{AverageProgress: 0.5, ETA: time.Second})
	m = next.(Model)
	if !strings.Contains(m.View(), "50.0%") {
		t.Errorf("progress bar missing from view:\n%s", m.View())
	}

	next, _ = m.Update(ComparisonResultsMsg{Size: 64, Results: results(time.Second, 3*time.Second)})
	m = next.(Model)

	rows := m.results.Rows()
	if len(rows) != 1 || rows[0].Speedup() != "3.00x" {
		t.Fatalf("rows = %+v, want one row with speedup 3.00x", rows)
	}
	view := m.View()
	for _, want := range []string{"matbench sweep v1.0.0", "Size 64×64 (1/2)", "3.00x", "1.000000", "RUNNING"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_SysStatsShowBusyCores(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{64}, noopBench, "dev"))
	defer m.cancel()

	next, _ := m.Update(SysStatsMsg{CPUPercent: 25, MemPercent: 40, BusyCores: 2, Cores: 8})
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"25.0%", "2/8", "40.0%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_StaleGenerationIgnored(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{8}, noopBench, "dev"))
	defer m.cancel()
	m.generation = 2

	next, _ := m.Update(ComparisonResultsMsg{Size: 8, Results: results(1, 1), Generation: 1})
	m = next.(Model)
	next, _ = m.Update(SweepCompleteMsg{ExitCode: 3, Generation: 1})
	m = next.(Model)

	if len(m.results.Rows()) != 0 || m.done {
		t.Error("messages from a previous sweep must be ignored")
	}
}

func TestModel_SweepComplete(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{8}, noopBench, "dev"))
	defer m.cancel()

	next, _ := m.Update(ErrorMsg{Size: 8, Err: errors.New("boom")})
	m = next.(Model)
	next, _ = m.Update(SweepCompleteMsg{ExitCode: apperrors.ExitErrorGeneric})
	m = next.(Model)

	if !m.done || m.ExitCode() != apperrors.ExitErrorGeneric {
		t.Errorf("done=%v exit=%d, want true %d", m.done, m.ExitCode(), apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(m.View(), "ERROR") || !strings.Contains(m.View(), "boom") {
		t.Errorf("view should show the failure:\n%s", m.View())
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{8}, noopBench, "dev"))
	defer m.cancel()

	next, cmd := m.Update(ContextCancelledMsg{Err: context.DeadlineExceeded})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if m.ExitCode() != apperrors.ExitErrorTimeout {
		t.Errorf("exit = %d, want %d", m.ExitCode(), apperrors.ExitErrorTimeout)
	}
}

func TestModel_PauseAndHelpKeys(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{8}, noopBench, "dev"))
	defer m.cancel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = next.(Model)
	if !m.paused || !strings.Contains(m.View(), "PAUSED") {
		t.Error("p should pause the display")
	}

	next, _ = m.Update(ProgressMsg{AverageProgress: 0.9})
	m = next.(Model)
	if m.results.progress != 0 {
		t.Error("progress must not update while paused")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(Model)
	if !strings.Contains(m.View(), "page down") {
		t.Errorf("full help should list every key:\n%s", m.View())
	}
}

func TestModel_ResetStartsNewGeneration(t *testing.T) {
	m := sized(t, NewModel(context.Background(), []int{8}, noopBench, "dev"))
	oldCtx := m.ctx
	next, _ := m.Update(ComparisonResultsMsg{Size: 8, Results: results(1, 2)})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	defer m.cancel()

	if cmd == nil {
		t.Fatal("reset should restart the sweep")
	}
	if m.generation != 1 || len(m.results.Rows()) != 0 {
		t.Errorf("generation=%d rows=%d, want 1 and 0", m.generation, len(m.results.Rows()))
	}
	if oldCtx.Err() == nil {
		t.Error("reset should cancel the previous sweep")
	}
}

func TestStartSweepCmd(t *testing.T) {
	var calls atomic.Int32
	bench := func(ctx context.Context, size int, r orchestration.ProgressReporter, p orchestration.ResultPresenter) int {
		calls.Add(1)
		if size == 16 {
			return apperrors.ExitErrorMismatch
		}
		return apperrors.ExitSuccess
	}

	msg := startSweepCmd(&programRef{}, context.Background(), []int{8, 16, 32}, bench, 4)()
	done, ok := msg.(SweepCompleteMsg)
	if !ok {
		t.Fatalf("got %T, want SweepCompleteMsg", msg)
	}
	if done.ExitCode != apperrors.ExitErrorMismatch || done.Generation != 4 {
		t.Errorf("got %+v", done)
	}
	if calls.Load() != 3 {
		t.Errorf("bench called %d times, want 3", calls.Load())
	}
}

func TestStartSweepCmd_StopsOnTimeout(t *testing.T) {
	var calls atomic.Int32
	bench := func(context.Context, int, orchestration.ProgressReporter, orchestration.ResultPresenter) int {
		calls.Add(1)
		return apperrors.ExitErrorTimeout
	}
	msg := startSweepCmd(&programRef{}, context.Background(), []int{8, 16}, bench, 0)()
	if msg.(SweepCompleteMsg).ExitCode != apperrors.ExitErrorTimeout || calls.Load() != 1 {
		t.Errorf("sweep should stop after a timeout, calls=%d", calls.Load())
	}
}

func TestResultsModel_Scroll(t *testing.T) {
	m := NewResultsModel()
	m.SetSize(80, 8) // three visible rows
	for i := 1; i <= 10; i++ {
		m.AddResults(i, results(time.Second, time.Second))
	}
	m.Scroll(100)
	if m.offset != 7 {
		t.Errorf("offset = %d, want 7", m.offset)
	}
	m.Scroll(-100)
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0", m.offset)
	}
}

func TestSizeRow(t *testing.T) {
	row := rowFromResults(100, []orchestration.BenchmarkResult{
		{Name: "parallel", Duration: 2 * time.Second},
		{Name: "sequential", Err: errors.New("x")},
	})
	if row.Speedup() != "-" {
		t.Errorf("Speedup() = %q, want -", row.Speedup())
	}
	if row.GFLOPS() != "0.001" {
		t.Errorf("GFLOPS() = %q, want 0.001", row.GFLOPS())
	}
	if row.Err == nil {
		t.Error("row should carry the sequential error")
	}
}
