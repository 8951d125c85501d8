package progress

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

type countingObserver struct {
	count atomic.Int64
	last  atomic.Uint64
}

func (o *countingObserver) Update(_ int, progress float64) {
	o.count.Add(1)
	o.last.Store(uint64(progress * 1e6))
}

func TestFreezeSnapshotImmutability(t *testing.T) {
	t.Parallel()
	subject := NewProgressSubject()
	obs1 := &countingObserver{}
	subject.Register(obs1)

	cb := subject.Freeze(0)

	obs2 := &countingObserver{}
	subject.Register(obs2)
	cb(0.5)

	if obs1.count.Load() != 1 {
		t.Errorf("obs1 count = %d, want 1", obs1.count.Load())
	}
	if obs2.count.Load() != 0 {
		t.Errorf("obs2 registered after freeze was notified %d times", obs2.count.Load())
	}
}

func TestFreezeConcurrentRegister(t *testing.T) {
	t.Parallel()
	subject := NewProgressSubject()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			subject.Register(&countingObserver{})
		}()
		go func(idx int) {
			defer wg.Done()
			subject.Freeze(idx)(0.5)
		}(i)
	}
	wg.Wait()
	if subject.ObserverCount() != 50 {
		t.Errorf("ObserverCount = %d, want 50", subject.ObserverCount())
	}
}

func TestRegisterNilAndUnregister(t *testing.T) {
	t.Parallel()
	subject := NewProgressSubject()
	subject.Register(nil)
	obs := &countingObserver{}
	subject.Register(obs)
	if subject.ObserverCount() != 1 {
		t.Fatalf("ObserverCount = %d, want 1", subject.ObserverCount())
	}
	subject.Unregister(obs)
	subject.Notify(0, 1)
	if obs.count.Load() != 0 {
		t.Error("unregistered observer was notified")
	}
}

func TestChannelObserverDoesNotBlock(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 1)
	obs := NewChannelObserver(ch)
	obs.Update(2, 0.25)
	obs.Update(2, 0.50) // dropped, channel full

	got := <-ch
	if got.StrategyIndex != 2 || got.Value != 0.25 {
		t.Errorf("got %+v, want {2 0.25}", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected second update %+v", extra)
	default:
	}

	NewChannelObserver(nil).Update(0, 1)
}

func TestLoggingObserverThreshold(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	obs := NewLoggingObserver(logger, 0.5)

	obs.Update(0, 0.1)
	obs.Update(0, 0.2)
	obs.Update(0, 0.7)
	obs.Update(0, 1.0)

	lines := strings.Count(buf.String(), "\n")
	if lines != 3 {
		t.Errorf("logged %d lines, want 3:\n%s", lines, buf.String())
	}
}

func TestNoOpObserver(t *testing.T) {
	t.Parallel()
	var o ProgressObserver = NewNoOpObserver()
	o.Update(0, 1)
}

func TestRowCounterReportsCompletion(t *testing.T) {
	t.Parallel()
	var (
		mu      sync.Mutex
		samples []float64
	)
	c := NewRowCounter(1000, func(p float64) {
		mu.Lock()
		samples = append(samples, p)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()

	if c.Done() != 1000 {
		t.Fatalf("Done = %d, want 1000", c.Done())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(samples) == 0 || len(samples) > 101 {
		t.Fatalf("got %d samples, want between 1 and 101", len(samples))
	}
	maxSeen := 0.0
	for _, s := range samples {
		maxSeen = max(maxSeen, s)
	}
	if maxSeen != 1 {
		t.Errorf("final progress = %v, want 1", maxSeen)
	}
}

func TestRowCounterSmallTotals(t *testing.T) {
	t.Parallel()
	var calls int
	c := NewRowCounter(3, func(float64) { calls++ })
	c.Add(1)
	c.Add(1)
	c.Add(1)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	var nilCounter *RowCounter
	nilCounter.Add(1)
	if nilCounter.Done() != 0 {
		t.Error("nil counter must report zero")
	}
	NewRowCounter(0, func(float64) { t.Error("zero-row counter must not report") }).Add(1)
}
