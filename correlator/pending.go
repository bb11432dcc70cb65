package correlator

import (
	"sync/atomic"
	"time"
)

// Kind names the exchange a pending operation belongs to.
type Kind string

const (
	Purchase Kind = "purchase"
	Restore  Kind = "restore"
)

// Outcome tells how a pending operation was resolved.
type Outcome string

const (
	Completed Outcome = "completed"
	TimedOut  Outcome = "timeout"
	Cancelled Outcome = "cancelled"
)

// Fallback synthesizes the result delivered when an operation times out or is cancelled.
type Fallback[T any] func(kind Kind, outcome Outcome) T

// Pending is a registered operation awaiting its result.
type Pending[T any] struct {
	ID        string
	Kind      Kind
	CreatedAt time.Time
	deadline  atomic.Int64
	done      chan struct{}
	value     T
}

// Deadline returns when the current await gives up, or the zero time before Await starts.
func (p *Pending[T]) Deadline() time.Time {
	if v := p.deadline.Load(); v != 0 {
		return time.Unix(0, v)
	}
	return time.Time{}
}

// Done is closed once the operation is resolved.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// resolve stores the single result and releases every waiter; callers must have taken p
// out of the pending set first.
func (p *Pending[T]) resolve(result T) {
	p.value = result
	close(p.done)
}

func newPending[T any](id string, kind Kind) *Pending[T] {
	return &Pending[T]{ID: id, Kind: kind, CreatedAt: time.Now(), done: make(chan struct{})}
}
