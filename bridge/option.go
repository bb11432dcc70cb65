package bridge

import (
	"time"

	"github.com/viant/capbridge/metrics"
	"github.com/viant/capbridge/provider"
	"github.com/viant/capbridge/sink"
)

// Option is a function that configures the bridge.
type Option func(b *Bridge)

// WithProvider sets the capability provider.
func WithProvider(p provider.Provider) Option {
	return func(b *Bridge) {
		b.provider = p
	}
}

// WithSink sets the event sink.
func WithSink(s sink.Sink) Option {
	return func(b *Bridge) {
		b.sink = s
	}
}

// WithListener sets an in-process listener as the event sink.
func WithListener(listener sink.Listener) Option {
	return WithSink(sink.NewListener(listener))
}

// WithTimeouts sets the default purchase and restore await timeouts.
func WithTimeouts(purchase, restore time.Duration) Option {
	return func(b *Bridge) {
		if purchase > 0 {
			b.purchaseTimeout = purchase
		}
		if restore > 0 {
			b.restoreTimeout = restore
		}
	}
}

// WithWrapperVersion sets the version injected into configure options.
func WithWrapperVersion(version string) Option {
	return func(b *Bridge) {
		b.wrapperVersion = version
	}
}

// WithMetrics records bridge metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}
