package tui

import (
	"time"

	"github.com/agbru/matbench/internal/orchestration"
)

// TickMsg drives periodic sampling and the elapsed timer.
type TickMsg time.Time

// SizeStartedMsg announces the benchmark of one sweep size.
type SizeStartedMsg struct {
	Index      int
	Size       int
	Generation uint64
}

// ProgressMsg carries aggregated progress of the running size.
type ProgressMsg struct {
	StrategyIndex   int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that the progress channel of a size was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries the results of one size.
type ComparisonResultsMsg struct {
	Size       int
	Results    []orchestration.BenchmarkResult
	Generation uint64
}

// ErrorMsg reports a failed size.
type ErrorMsg struct {
	Size       int
	Err        error
	Duration   time.Duration
	Generation uint64
}

// SweepCompleteMsg is returned once every size has run or the sweep stopped.
type SweepCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the sweep context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// MemStatsMsg holds a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg holds a machine load sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	BusyCores  int
	Cores      int
}
