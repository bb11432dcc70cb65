// Package provider defines the capability surface the bridge wraps and the callbacks a
// provider may invoke on the bridge.
package provider

import (
	"context"
	"time"

	"github.com/viant/capbridge/schema"
)

// Provider is the underlying capability SDK. Any operation may fail; failures are
// returned to the immediate caller.
type Provider interface {
	Configure(ctx context.Context, apiKey string, options *schema.ConfigureOptions, usePurchaseFlow bool, callbacks Callbacks) error
	Shutdown(ctx context.Context) error

	Identify(ctx context.Context, distinctID string, properties, setOnce map[string]string) error
	Reset(ctx context.Context, keepAnonymousID bool) error
	DistinctID(ctx context.Context) (string, error)
	AnonymousID(ctx context.Context) (string, error)
	IsIdentified(ctx context.Context) (bool, error)

	// StartTrigger evaluates eventName and reports 1..N updates through
	// Callbacks.OnTriggerUpdate, synchronously or from another goroutine.
	StartTrigger(ctx context.Context, requestID, eventName string, options *schema.TriggerOptions) error
	CancelTrigger(ctx context.Context, requestID string) error

	ShowFlow(ctx context.Context, flowID string) error
	RefreshProfile(ctx context.Context) (*schema.Profile, error)

	HasFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string) (*schema.FeatureAccess, error)
	CheckFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string, forceRefresh bool) (*schema.FeatureCheck, error)
	UseFeature(ctx context.Context, featureID string, amount float64, entityID string, metadata map[string]string) error
	UseFeatureAndWait(ctx context.Context, featureID string, amount float64, entityID string, setUsage bool, metadata map[string]string) (*schema.FeatureUsage, error)

	FlushEvents(ctx context.Context) (bool, error)
	QueuedEventCount(ctx context.Context) (int, error)
	PauseEventQueue(ctx context.Context) error
	ResumeEventQueue(ctx context.Context) error

	// CompletePurchase and CompleteRestore receive host results for bookkeeping after
	// the bridge has resolved the pending operation.
	CompletePurchase(ctx context.Context, requestID string, result *schema.PurchaseResult) error
	CompleteRestore(ctx context.Context, requestID string, result *schema.RestoreResult) error
}

// Callbacks is implemented by the bridge and handed to the provider on configure.
type Callbacks interface {
	OnTriggerUpdate(ctx context.Context, requestID string, update *schema.TriggerUpdate)
	OnFeatureAccessChanged(ctx context.Context, change *schema.FeatureAccessChange)
	OnFlowPresented(ctx context.Context, flowID string)
	OnFlowDismissed(ctx context.Context, dismissed *schema.FlowDismissed)

	// AwaitPurchaseResult publishes request to the host and blocks until the host
	// completes it or timeout elapses. A non-positive timeout selects the default.
	AwaitPurchaseResult(ctx context.Context, request *schema.PurchaseRequest, timeout time.Duration) *schema.PurchaseResult
	AwaitRestoreResult(ctx context.Context, request *schema.RestoreRequest, timeout time.Duration) *schema.RestoreResult
}
