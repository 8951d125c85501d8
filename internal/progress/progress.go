package progress

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ProgressUpdate is a progress sample sent over a channel to a display.
type ProgressUpdate struct {
	// StrategyIndex identifies the strategy that produced the sample.
	StrategyIndex int
	// Value is the completion fraction in [0, 1].
	Value float64
}

// ProgressCallback receives the completion fraction of the running strategy.
// It may be called from several worker goroutines concurrently.
type ProgressCallback func(progress float64)

// ProgressObserver is notified of progress for a given strategy index.
type ProgressObserver interface {
	Update(strategyIndex int, progress float64)
}

// ProgressSubject fans progress out to registered observers.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject creates a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Unregister removes the first occurrence of o.
func (s *ProgressSubject) Unregister(o ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends a sample to every registered observer.
func (s *ProgressSubject) Notify(strategyIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(strategyIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Freeze snapshots the current observers into a lock-free callback bound to
// strategyIndex. Observers registered afterwards are not notified by it.
func (s *ProgressSubject) Freeze(strategyIndex int) ProgressCallback {
	s.mu.RLock()
	snapshot := make([]ProgressObserver, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	return func(progress float64) {
		for _, o := range snapshot {
			o.Update(strategyIndex, progress)
		}
	}
}

// ChannelObserver forwards samples to a channel without blocking. Samples
// are dropped when the channel is full.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

// NewChannelObserver creates an observer writing to ch.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(strategyIndex int, progress float64) {
	if o.ch == nil {
		return
	}
	select {
	case o.ch <- ProgressUpdate{StrategyIndex: strategyIndex, Value: progress}:
	default:
	}
}

// LoggingObserver logs a sample each time progress advances by at least
// threshold since the last logged sample of that strategy.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	mu        sync.Mutex
	last      map[int]float64
}

// NewLoggingObserver creates a logging observer. A threshold <= 0 defaults
// to 10%.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{logger: logger, threshold: threshold, last: make(map[int]float64)}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(strategyIndex int, progress float64) {
	o.mu.Lock()
	last, seen := o.last[strategyIndex]
	if seen && progress-last < o.threshold && progress < 1 {
		o.mu.Unlock()
		return
	}
	o.last[strategyIndex] = progress
	o.mu.Unlock()

	o.logger.Debug().
		Int("strategy", strategyIndex).
		Float64("progress", progress).
		Msg("multiplication progress")
}

// NoOpObserver discards all samples.
type NoOpObserver struct{}

// NewNoOpObserver returns a NoOpObserver.
func NewNoOpObserver() NoOpObserver { return NoOpObserver{} }

// Update implements ProgressObserver.
func (NoOpObserver) Update(int, float64) {}

// RowCounter converts completed rows into throttled progress callbacks. It
// reports roughly once per percent of rows and always reports completion.
// It is safe for concurrent use by all workers of a run.
type RowCounter struct {
	total    int64
	step     int64
	done     atomic.Int64
	reported atomic.Int64
	cb       ProgressCallback
}

// NewRowCounter creates a counter for total rows. A nil callback makes every
// method a no-op.
func NewRowCounter(total int, cb ProgressCallback) *RowCounter {
	step := int64(total) / 100
	if step < 1 {
		step = 1
	}
	return &RowCounter{total: int64(total), step: step, cb: cb}
}

// Add records n completed rows.
func (c *RowCounter) Add(n int) {
	if c == nil || c.cb == nil || c.total <= 0 {
		return
	}
	done := c.done.Add(int64(n))
	for {
		prev := c.reported.Load()
		if done-prev < c.step && done < c.total {
			return
		}
		if done <= prev {
			return
		}
		if c.reported.CompareAndSwap(prev, done) {
			c.cb(min(float64(done)/float64(c.total), 1))
			return
		}
	}
}

// Done returns the number of rows recorded so far.
func (c *RowCounter) Done() int64 {
	if c == nil {
		return 0
	}
	return c.done.Load()
}
