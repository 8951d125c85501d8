package multiply

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/agbru/matbench/internal/errors"
)

// ErrBarrierOverrun is returned when more parties arrive at a Barrier than it
// was created for.
var ErrBarrierOverrun = errors.New("barrier: more arrivals than parties")

// Barrier is a one-shot rendezvous for a fixed number of parties. Each party
// calls Wait once; all calls return together when the last party arrives.
// A Barrier is created for a single multiplication and must not be reused.
type Barrier struct {
	parties int

	mu      sync.Mutex
	arrived int
	release chan struct{}
}

// NewBarrier creates a barrier for parties participants.
func NewBarrier(parties int) (*Barrier, error) {
	if parties < 1 {
		return nil, apperrors.SynchronizationError{
			Primitive: "barrier",
			Cause:     fmt.Errorf("party count must be >= 1, got %d", parties),
		}
	}
	return &Barrier{parties: parties, release: make(chan struct{})}, nil
}

// Parties returns the number of participants the barrier waits for.
func (b *Barrier) Parties() int { return b.parties }

// Wait blocks until all parties have called Wait or ctx is done. Writes made
// by any party before Wait happen before every Wait returns nil.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	b.arrived++
	switch {
	case b.arrived == b.parties:
		close(b.release)
		b.mu.Unlock()
		return nil
	case b.arrived > b.parties:
		b.mu.Unlock()
		return ErrBarrierOverrun
	}
	b.mu.Unlock()

	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		select {
		case <-b.release:
			return nil
		default:
			return ctx.Err()
		}
	}
}
