// Package noop provides the provider used where no native capability SDK exists.
// Every operation fails with NATIVE_UNAVAILABLE.
package noop

import (
	"context"

	"github.com/google/uuid"
	"github.com/viant/capbridge/provider"
	"github.com/viant/capbridge/schema"
)

const unavailable = "capability provider is not available on this platform"

// Provider is an always unavailable provider.
type Provider struct {
	anonymousID string
}

func errUnavailable() error {
	return schema.NewError(schema.CodeNativeUnavailable, unavailable)
}

func (p *Provider) Configure(ctx context.Context, apiKey string, options *schema.ConfigureOptions, usePurchaseFlow bool, callbacks provider.Callbacks) error {
	return errUnavailable()
}

func (p *Provider) Shutdown(ctx context.Context) error { return errUnavailable() }

func (p *Provider) Identify(ctx context.Context, distinctID string, properties, setOnce map[string]string) error {
	return errUnavailable()
}

func (p *Provider) Reset(ctx context.Context, keepAnonymousID bool) error { return errUnavailable() }

// DistinctID falls back to the anonymous id.
func (p *Provider) DistinctID(ctx context.Context) (string, error) { return p.anonymousID, nil }

func (p *Provider) AnonymousID(ctx context.Context) (string, error) { return p.anonymousID, nil }

func (p *Provider) IsIdentified(ctx context.Context) (bool, error) { return false, nil }

func (p *Provider) StartTrigger(ctx context.Context, requestID, eventName string, options *schema.TriggerOptions) error {
	return errUnavailable()
}

func (p *Provider) CancelTrigger(ctx context.Context, requestID string) error { return errUnavailable() }

func (p *Provider) ShowFlow(ctx context.Context, flowID string) error { return errUnavailable() }

func (p *Provider) RefreshProfile(ctx context.Context) (*schema.Profile, error) { return nil, errUnavailable() }

func (p *Provider) HasFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string) (*schema.FeatureAccess, error) {
	return nil, errUnavailable()
}

func (p *Provider) CheckFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string, forceRefresh bool) (*schema.FeatureCheck, error) {
	return nil, errUnavailable()
}

func (p *Provider) UseFeature(ctx context.Context, featureID string, amount float64, entityID string, metadata map[string]string) error {
	return errUnavailable()
}

func (p *Provider) UseFeatureAndWait(ctx context.Context, featureID string, amount float64, entityID string, setUsage bool, metadata map[string]string) (*schema.FeatureUsage, error) {
	return nil, errUnavailable()
}

func (p *Provider) FlushEvents(ctx context.Context) (bool, error) { return false, errUnavailable() }

func (p *Provider) QueuedEventCount(ctx context.Context) (int, error) { return 0, errUnavailable() }

func (p *Provider) PauseEventQueue(ctx context.Context) error { return errUnavailable() }

func (p *Provider) ResumeEventQueue(ctx context.Context) error { return errUnavailable() }

func (p *Provider) CompletePurchase(ctx context.Context, requestID string, result *schema.PurchaseResult) error {
	return errUnavailable()
}

func (p *Provider) CompleteRestore(ctx context.Context, requestID string, result *schema.RestoreResult) error {
	return errUnavailable()
}

// New creates a noop provider with a generated anonymous id
func New() *Provider {
	return &Provider{anonymousID: uuid.NewString()}
}

var _ provider.Provider = (*Provider)(nil)
