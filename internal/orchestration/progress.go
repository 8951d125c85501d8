package orchestration

import (
	"time"

	"github.com/agbru/matbench/internal/format"
	"github.com/agbru/matbench/internal/progress"
)

// ProgressAggregator wraps format.ProgressWithETA for consumers of a
// progress channel. Both CLI and TUI use it.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numStrategies int
}

// NewProgressAggregator creates an aggregator for numStrategies strategies.
// Returns nil if numStrategies <= 0.
func NewProgressAggregator(numStrategies int) *ProgressAggregator {
	if numStrategies <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numStrategies),
		numStrategies: numStrategies,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// StrategyIndex is the index of the strategy that sent the update.
	StrategyIndex int
	// Value is the raw completion fraction of that strategy.
	Value float64
	// AverageProgress is the overall completion of the benchmark.
	AverageProgress float64
	// ETA is the estimated time remaining.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.StrategyIndex, update.Value)
	return AggregatedProgress{
		StrategyIndex:   update.StrategyIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current overall progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumStrategies returns the number of strategies being tracked.
func (a *ProgressAggregator) NumStrategies() int {
	return a.numStrategies
}

// DrainChannel reads all updates from the channel until it is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
