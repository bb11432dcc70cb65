package mock

import (
	"time"

	"github.com/viant/capbridge/schema"
)

// Option is a function that configures the provider.
type Option func(p *Provider)

// WithScript sets the steps run when eventName is triggered.
func WithScript(eventName string, steps ...Step) Option {
	return func(p *Provider) {
		p.scripts[eventName] = steps
	}
}

// WithFeature adds a feature to the access table.
func WithFeature(featureID string, access *schema.FeatureAccess) Option {
	return func(p *Provider) {
		stored := *access
		p.features[featureID] = &stored
	}
}

// WithFailure makes method fail with err.
func WithFailure(method string, err error) Option {
	return func(p *Provider) {
		p.failures[method] = err
	}
}

// WithAsync runs trigger scripts on their own goroutine.
func WithAsync() Option {
	return func(p *Provider) {
		p.async = true
	}
}

// WithWaitTimeout bounds how long a script waits for a purchase or restore result.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.wait = timeout
	}
}

// Updates wraps updates as script steps.
func Updates(updates ...*schema.TriggerUpdate) []Step {
	ret := make([]Step, 0, len(updates))
	for _, update := range updates {
		ret = append(ret, Step{Update: update})
	}
	return ret
}
