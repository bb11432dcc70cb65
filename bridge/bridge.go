package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/correlator"
	"github.com/viant/capbridge/metrics"
	"github.com/viant/capbridge/provider"
	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
)

const logPrefix = "bridge:bridge"

var (
	// ErrEmptyAPIKey is returned by Configure when no api key is given.
	ErrEmptyAPIKey = errors.New("bridge: api key is empty")
	// ErrAlreadyConfigured is returned by Configure before Shutdown.
	ErrAlreadyConfigured = errors.New("bridge: already configured")
	// ErrNotConfigured is returned by session operations before Configure.
	ErrNotConfigured = errors.New("bridge: not configured")
	// ErrNoProvider indicates a bridge created without a provider.
	ErrNoProvider = errors.New("bridge: no provider")
	// ErrEmptyRequestID is returned when a trigger request id is missing.
	ErrEmptyRequestID = errors.New("bridge: request id is empty")
	// ErrInvalidWrapperVersion is returned by Configure for a non semver wrapper version.
	ErrInvalidWrapperVersion = errors.New("bridge: invalid wrapper version")
)

type state int

const (
	unconfigured state = iota
	configuring
	configured
)

// stream is an active trigger and the pending operations raised on its behalf.
type stream struct {
	eventName string
	owned     map[string]correlator.Kind
}

// Bridge is the host facing facade.
type Bridge struct {
	mux       sync.Mutex
	state     state
	provider  provider.Provider
	sink      sink.Sink
	streams   map[string]*stream
	// cancelled maps a cancelled trigger id to its cancellation sequence number
	cancelled map[string]uint64
	cancelSeq uint64

	purchases       *correlator.Correlator[*schema.PurchaseResult]
	restores        *correlator.Correlator[*schema.RestoreResult]
	purchaseTimeout time.Duration
	restoreTimeout  time.Duration
	wrapperVersion  string
	metrics         *metrics.Metrics
}

// Configure starts a session. The options payload is decoded, the wrapper version is
// injected and the provider is configured with the bridge as its callbacks.
func (b *Bridge) Configure(ctx context.Context, apiKey, optionsPayload string, usePurchaseFlow bool) error {
	if apiKey == "" {
		return ErrEmptyAPIKey
	}
	options := &schema.ConfigureOptions{}
	codec.Unmarshal(optionsPayload, options)
	if b.wrapperVersion != "" {
		options.WrapperVersion = b.wrapperVersion
	}
	if options.WrapperVersion != "" {
		if _, err := semver.NewVersion(options.WrapperVersion); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidWrapperVersion, options.WrapperVersion, err)
		}
	}

	b.mux.Lock()
	if b.state != unconfigured {
		b.mux.Unlock()
		return ErrAlreadyConfigured
	}
	if b.provider == nil {
		b.mux.Unlock()
		return ErrNoProvider
	}
	b.state = configuring
	p := b.provider
	b.mux.Unlock()

	err := p.Configure(ctx, apiKey, options, usePurchaseFlow, b)

	b.mux.Lock()
	defer b.mux.Unlock()
	if err != nil {
		b.state = unconfigured
		return err
	}
	b.state = configured
	slog.Info(fmt.Sprintf("%s - configured, wrapper version %s", logPrefix, options.WrapperVersion))
	return nil
}

// Shutdown ends the session: active streams are cleared and pending operations cancelled.
// The bridge is unconfigured afterwards even when the provider fails to shut down.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.mux.Lock()
	if b.state != configured {
		b.mux.Unlock()
		return ErrNotConfigured
	}
	p := b.provider
	b.state = unconfigured
	b.streams = map[string]*stream{}
	b.cancelled = map[string]uint64{}
	b.mux.Unlock()

	cancelled := b.purchases.CancelAll() + b.restores.CancelAll()
	b.metrics.SetActiveTriggers(0)
	slog.Info(fmt.Sprintf("%s - shutdown, %d pending operation(s) cancelled", logPrefix, cancelled))
	return p.Shutdown(ctx)
}

// IsConfigured reports whether a session is active.
func (b *Bridge) IsConfigured() bool {
	b.mux.Lock()
	defer b.mux.Unlock()
	return b.state == configured
}

// SetSink replaces the sink; events emitted afterwards go to s only.
func (b *Bridge) SetSink(s sink.Sink) {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.sink = s
}

// session returns the configured provider.
func (b *Bridge) session() (provider.Provider, error) {
	b.mux.Lock()
	defer b.mux.Unlock()
	if b.state != configured {
		return nil, ErrNotConfigured
	}
	return b.provider, nil
}

// ActiveTriggers returns the ids of streams that have not delivered a terminal update.
func (b *Bridge) ActiveTriggers() []string {
	b.mux.Lock()
	defer b.mux.Unlock()
	ret := make([]string, 0, len(b.streams))
	for id := range b.streams {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

// PendingOperations returns the number of purchase and restore requests awaiting the host.
func (b *Bridge) PendingOperations() int {
	return b.purchases.Len() + b.restores.Len()
}

// New creates a bridge
func New(options ...Option) *Bridge {
	ret := &Bridge{
		streams:         map[string]*stream{},
		cancelled:       map[string]uint64{},
		purchaseTimeout: correlator.DefaultTimeout,
		restoreTimeout:  correlator.DefaultTimeout,
	}
	for _, option := range options {
		option(ret)
	}
	ret.purchases = correlator.New[*schema.PurchaseResult](purchaseFallback,
		correlator.WithTimeout(ret.purchaseTimeout), correlator.WithMetrics(ret.metrics))
	ret.restores = correlator.New[*schema.RestoreResult](restoreFallback,
		correlator.WithTimeout(ret.restoreTimeout), correlator.WithMetrics(ret.metrics))
	return ret
}

var _ provider.Callbacks = (*Bridge)(nil)
