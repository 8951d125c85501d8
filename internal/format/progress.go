package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA bounds estimates produced from very slow early progress.
const maxETA = 24 * time.Hour

// ProgressState aggregates the completion fraction of several concurrently
// tracked strategies.
type ProgressState struct {
	progresses    []float64
	numStrategies int
}

// NewProgressState creates a ProgressState tracking n strategies.
func NewProgressState(n int) *ProgressState {
	if n < 0 {
		n = 0
	}
	return &ProgressState{progresses: make([]float64, n), numStrategies: n}
}

// Update records the completion fraction for strategy index. Out-of-range
// indices are ignored and values are clamped to [0, 1].
func (s *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(s.progresses) {
		return
	}
	s.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean completion fraction.
func (s *ProgressState) CalculateAverage() float64 {
	if s.numStrategies == 0 {
		return 0
	}
	var total float64
	for _, p := range s.progresses {
		total += p
	}
	return total / float64(s.numStrategies)
}

// ProgressWithETA extends ProgressState with a smoothed completion rate used
// to estimate the remaining time. It is safe for concurrent use.
type ProgressWithETA struct {
	*ProgressState
	mu            sync.Mutex
	startTime     time.Time
	lastUpdate    time.Time
	lastProgress  float64
	progressRate  float64 // fraction per second
}

// NewProgressWithETA creates a tracker for n strategies starting now.
func NewProgressWithETA(n int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a new value and returns the overall progress and the
// current remaining-time estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProgressState.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = 0.7*p.progressRate + 0.3*rate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.etaLocked(avg)
}

// GetETA returns the remaining-time estimate, or zero when no rate has been
// observed yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked(p.CalculateAverage())
}

func (p *ProgressWithETA) etaLocked(avg float64) time.Duration {
	if p.progressRate <= 0 || avg >= 1 {
		return 0
	}
	secs := (1 - avg) / p.progressRate
	eta := time.Duration(secs * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// ProgressBar renders a bar of the given length using full and light shade
// blocks. progress is clamped to [0, 1].
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  42.0% ETA: 1m".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
