// Package completion provides a one-shot settlement signal that either of two
// writers may settle and any number of readers may await.
package completion

import (
	"context"
	"errors"
	"sync"
)

// ErrRejected is the cause recorded when Reject is called with a nil error.
var ErrRejected = errors.New("completion rejected")

// State is the settlement state of a Signal.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Signal transitions from Pending to Fulfilled or Rejected exactly once.
// Later settlement attempts are no-ops. Awaiters that arrive after settlement
// observe the same outcome immediately.
type Signal struct {
	mu    sync.Mutex
	state State
	err   error
	done  chan struct{}
}

// New returns a pending Signal.
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fulfill settles the signal successfully. It reports whether this call
// performed the settlement.
func (s *Signal) Fulfill() bool {
	return s.settle(Fulfilled, nil)
}

// Reject settles the signal with cause. A nil cause is recorded as ErrRejected.
// It reports whether this call performed the settlement.
func (s *Signal) Reject(cause error) bool {
	if cause == nil {
		cause = ErrRejected
	}
	return s.settle(Rejected, cause)
}

func (s *Signal) settle(state State, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Pending {
		return false
	}
	s.state = state
	s.err = err
	close(s.done)
	return true
}

// Done returns a channel that is closed once the signal settles.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Err returns the rejection cause, or nil while pending or once fulfilled.
func (s *Signal) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the signal settles and returns the rejection cause (nil
// when fulfilled). If ctx ends first, ctx.Err() is returned.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current state.
func (s *Signal) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Signal) IsFulfilled() bool { return s.State() == Fulfilled }
func (s *Signal) IsRejected() bool  { return s.State() == Rejected }
func (s *Signal) IsSettled() bool   { return s.State() != Pending }
