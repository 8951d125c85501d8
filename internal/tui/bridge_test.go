package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/progress"
)

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}} // nil program: Send is a no-op

	ch := make(chan progress.ProgressUpdate, 10)
	ch <- progress.ProgressUpdate{StrategyIndex: 0, Value: 0.25}
	ch <- progress.ProgressUpdate{StrategyIndex: 1, Value: 0.50}
	ch <- progress.ProgressUpdate{StrategyIndex: 0, Value: 1.00}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 2, nil)
	wg.Wait()

	if len(ch) != 0 {
		t.Errorf("%d updates left in the channel", len(ch))
	}
}

func TestTUIProgressReporter_ZeroStrategies(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}}

	ch := make(chan progress.ProgressUpdate, 5)
	ch <- progress.ProgressUpdate{Value: 0.5}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 0, nil)
	wg.Wait()
}

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{}
	ref.Send(ProgressMsg{Value: 0.5})
}

func TestProgramRef_Send_Concurrent(t *testing.T) {
	ref := &programRef{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Send(ProgressMsg{Value: float64(i) / 100})
		}()
	}
	wg.Wait()
}

func TestTUIResultPresenter_HandleError(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}, size: 64}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, apperrors.ExitSuccess},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"allocation", apperrors.AllocationError{What: "matrix"}, apperrors.ExitErrorResource},
		{"generic", errors.New("something failed"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.HandleError(tt.err, time.Second, nil); got != tt.want {
				t.Errorf("HandleError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestTUIResultPresenter_PresentDoesNotPanic(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}, size: 2}
	results := []orchestration.BenchmarkResult{
		{Name: "parallel", Duration: 100 * time.Millisecond},
		{Name: "sequential", Duration: 200 * time.Millisecond},
	}
	presenter.PresentComparisonTable(results, nil)
	presenter.PresentResult(results[0], results, orchestration.PresentationOptions{Size: 2}, nil)
}
