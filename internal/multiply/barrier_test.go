package multiply

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
)

func TestNewBarrierRejectsNoParties(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -3} {
		_, err := NewBarrier(n)
		var syncErr apperrors.SynchronizationError
		if !errors.As(err, &syncErr) {
			t.Errorf("NewBarrier(%d) error = %v, want SynchronizationError", n, err)
		}
	}
}

func TestBarrierReleasesAllParties(t *testing.T) {
	t.Parallel()
	const parties = 16
	b, err := NewBarrier(parties)
	if err != nil {
		t.Fatal(err)
	}

	var (
		before atomic.Int32
		wg     sync.WaitGroup
		bad    atomic.Bool
	)
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			before.Add(1)
			if err := b.Wait(context.Background()); err != nil {
				bad.Store(true)
				return
			}
			// Every party must have arrived before any is released.
			if before.Load() != parties {
				bad.Store(true)
			}
		}()
	}
	wg.Wait()
	if bad.Load() {
		t.Fatal("a party returned from Wait before all parties arrived")
	}
}

func TestBarrierSingleParty(t *testing.T) {
	t.Parallel()
	b, _ := NewBarrier(1)
	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("Wait = %v, want nil", err)
	}
	if err := b.Wait(context.Background()); !errors.Is(err, ErrBarrierOverrun) {
		t.Fatalf("second Wait = %v, want ErrBarrierOverrun", err)
	}
}

func TestBarrierHonorsContext(t *testing.T) {
	t.Parallel()
	b, _ := NewBarrier(2)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- b.Wait(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Wait = %v, want DeadlineExceeded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after the deadline")
	}
}
