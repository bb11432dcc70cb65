package correlator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/capbridge/internal/collection"
	"github.com/viant/capbridge/metrics"
)

const logPrefix = "correlator:correlator"

// DefaultTimeout applies when Await is called with a non-positive timeout.
const DefaultTimeout = 60 * time.Second

// ErrDuplicate indicates an id that is already pending.
var ErrDuplicate = errors.New("correlator: operation already pending")

// Correlator owns the set of pending operations resolving to T.
type Correlator[T any] struct {
	pending  *collection.SyncMap[string, *Pending[T]]
	fallback Fallback[T]
	timeout  time.Duration
	metrics  *metrics.Metrics
}

// Option configures a Correlator.
type Option func(c *correlatorConfig)

type correlatorConfig struct {
	timeout time.Duration
	metrics *metrics.Metrics
}

// WithTimeout sets the timeout used when Await is given none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *correlatorConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMetrics records pending and resolution counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *correlatorConfig) {
		c.metrics = m
	}
}

// Create registers id. A live id is never overwritten; the call fails with ErrDuplicate.
func (c *Correlator[T]) Create(id string, kind Kind) (*Pending[T], error) {
	p := newPending[T](id, kind)
	if !c.pending.PutIfAbsent(id, p) {
		slog.Warn(fmt.Sprintf("%s - duplicate %s operation %q ignored", logPrefix, kind, id))
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	c.metrics.Created(string(kind))
	return p, nil
}

// Await blocks until id is resolved, timeout elapses or ctx is done. A deadline or a done
// context removes the entry and yields the timeout fallback. An id that is not pending
// yields the timeout fallback at once. The id is never pending after Await returns.
func (c *Correlator[T]) Await(ctx context.Context, id string, timeout time.Duration) T {
	p, ok := c.pending.Get(id)
	if !ok {
		return c.fallback("", TimedOut)
	}
	return c.AwaitPending(ctx, p, timeout)
}

// AwaitPending waits on a handle returned by Create. A result delivered between Create and
// AwaitPending is returned immediately. Any number of callers may wait on the same handle;
// all of them observe the one result.
func (c *Correlator[T]) AwaitPending(ctx context.Context, p *Pending[T], timeout time.Duration) T {
	id := p.ID
	if timeout <= 0 {
		timeout = c.timeout
	}
	p.deadline.Store(time.Now().Add(timeout).UnixNano())
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return p.value
	case <-timer.C:
	case <-ctx.Done():
	}
	if _, taken := c.pending.TakeIf(id, func(v *Pending[T]) bool { return v == p }); taken {
		p.resolve(c.fallback(p.Kind, TimedOut))
		c.metrics.Resolved(string(p.Kind), string(TimedOut))
		slog.Warn(fmt.Sprintf("%s - %s operation %q timed out after %s", logPrefix, p.Kind, id, timeout))
		return p.value
	}
	// another resolver took the entry and resolves it without blocking
	<-p.done
	return p.value
}

// Complete resolves id with result. It reports false when id is not pending.
func (c *Correlator[T]) Complete(id string, result T) bool {
	p, ok := c.pending.Take(id)
	if !ok {
		slog.Debug(fmt.Sprintf("%s - completion for %q dropped: not pending", logPrefix, id))
		return false
	}
	p.resolve(result)
	c.metrics.Resolved(string(p.Kind), string(Completed))
	return true
}

// Cancel resolves id with the cancellation fallback so that a waiter always returns.
func (c *Correlator[T]) Cancel(id string) bool {
	p, ok := c.pending.Take(id)
	if !ok {
		return false
	}
	c.cancel(p)
	return true
}

// CancelAll cancels every pending operation and returns how many were cancelled.
func (c *Correlator[T]) CancelAll() int {
	drained := c.pending.Drain()
	for _, p := range drained {
		c.cancel(p)
	}
	return len(drained)
}

func (c *Correlator[T]) cancel(p *Pending[T]) {
	p.resolve(c.fallback(p.Kind, Cancelled))
	c.metrics.Resolved(string(p.Kind), string(Cancelled))
}

// Len returns the number of pending operations.
func (c *Correlator[T]) Len() int {
	return c.pending.Len()
}

// Has reports whether id is pending.
func (c *Correlator[T]) Has(id string) bool {
	_, ok := c.pending.Get(id)
	return ok
}

// New creates a correlator; fallback supplies timeout and cancellation results.
func New[T any](fallback Fallback[T], options ...Option) *Correlator[T] {
	cfg := &correlatorConfig{timeout: DefaultTimeout}
	for _, option := range options {
		option(cfg)
	}
	return &Correlator[T]{
		pending:  collection.NewSyncMap[string, *Pending[T]](),
		fallback: fallback,
		timeout:  cfg.timeout,
		metrics:  cfg.metrics,
	}
}
