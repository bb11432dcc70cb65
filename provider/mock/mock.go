// Package mock provides a scripted in-memory provider. Trigger scripts can emit updates and
// drive purchase and restore requests through the bridge callbacks, which makes the
// provider suitable for tests and for running the host without a native SDK.
package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/provider"
	"github.com/viant/capbridge/schema"
)

// ErrNotConfigured is returned by operations that require Configure first.
var ErrNotConfigured = errors.New("mock: provider not configured")

// Step is one scripted action of a trigger.
type Step struct {
	// Update is emitted as is, restamped with the current time.
	Update *schema.TriggerUpdate
	// Purchase asks the host to buy the product and reports an entitlement for the outcome.
	Purchase string
	// Restore asks the host to restore purchases and reports an entitlement for the outcome.
	Restore bool
	Delay   time.Duration
}

// Provider is a scripted provider.Provider.
type Provider struct {
	scripts  map[string][]Step
	features map[string]*schema.FeatureAccess
	failures map[string]error
	async    bool
	wait     time.Duration

	mux             sync.Mutex
	callbacks       provider.Callbacks
	configured      bool
	apiKey          string
	options         *schema.ConfigureOptions
	usePurchaseFlow bool
	distinctID      string
	anonymousID     string
	properties      map[string]string
	cancelled       map[string]bool
	queued          int
	paused          bool
	purchases       map[string]*schema.PurchaseResult
	restores        map[string]*schema.RestoreResult
	running         sync.WaitGroup
}

func (p *Provider) fail(method string) error {
	if err, ok := p.failures[method]; ok {
		return err
	}
	return nil
}

func (p *Provider) guard(method string) error {
	if err := p.fail(method); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	if !p.configured {
		return ErrNotConfigured
	}
	return nil
}

func (p *Provider) getCallbacks() provider.Callbacks {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.callbacks
}

func (p *Provider) Configure(ctx context.Context, apiKey string, options *schema.ConfigureOptions, usePurchaseFlow bool, callbacks provider.Callbacks) error {
	if err := p.fail(schema.MethodConfigure); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.configured = true
	p.apiKey = apiKey
	p.options = options
	p.usePurchaseFlow = usePurchaseFlow
	p.callbacks = callbacks
	return nil
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.guard(schema.MethodShutdown); err != nil {
		return err
	}
	p.mux.Lock()
	p.configured = false
	p.callbacks = nil
	p.mux.Unlock()
	return nil
}

func (p *Provider) Identify(ctx context.Context, distinctID string, properties, setOnce map[string]string) error {
	if err := p.guard(schema.MethodIdentify); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.distinctID = distinctID
	for k, v := range setOnce {
		if _, ok := p.properties[k]; !ok {
			p.properties[k] = v
		}
	}
	for k, v := range properties {
		p.properties[k] = v
	}
	p.queued++
	return nil
}

func (p *Provider) Reset(ctx context.Context, keepAnonymousID bool) error {
	if err := p.guard(schema.MethodReset); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.distinctID = ""
	p.properties = map[string]string{}
	if !keepAnonymousID {
		p.anonymousID = uuid.NewString()
	}
	return nil
}

func (p *Provider) DistinctID(ctx context.Context) (string, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.distinctID != "" {
		return p.distinctID, nil
	}
	return p.anonymousID, nil
}

func (p *Provider) AnonymousID(ctx context.Context) (string, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.anonymousID, nil
}

func (p *Provider) IsIdentified(ctx context.Context) (bool, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.distinctID != "", nil
}

func (p *Provider) StartTrigger(ctx context.Context, requestID, eventName string, options *schema.TriggerOptions) error {
	if err := p.guard(schema.MethodTriggerStart); err != nil {
		return err
	}
	steps, ok := p.scripts[eventName]
	if !ok {
		steps = []Step{{Update: schema.NewDecisionUpdate(schema.DecisionNoMatch, nil)}}
	}
	p.mux.Lock()
	p.queued++
	delete(p.cancelled, requestID)
	p.mux.Unlock()

	if !p.async {
		p.run(ctx, requestID, steps)
		return nil
	}
	p.running.Add(1)
	go func() {
		defer p.running.Done()
		p.run(context.WithoutCancel(ctx), requestID, steps)
	}()
	return nil
}

func (p *Provider) run(ctx context.Context, requestID string, steps []Step) {
	for _, step := range steps {
		if step.Delay > 0 {
			time.Sleep(step.Delay)
		}
		p.mux.Lock()
		cancelled := p.cancelled[requestID]
		callbacks := p.callbacks
		p.mux.Unlock()
		if cancelled || callbacks == nil {
			return
		}
		switch {
		case step.Update != nil:
			update := *step.Update
			update.TimestampMs = time.Now().UnixMilli()
			callbacks.OnTriggerUpdate(ctx, requestID, &update)
		case step.Purchase != "":
			waitCtx, cancel := p.waitContext(ctx)
			result := callbacks.AwaitPurchaseResult(waitCtx, schema.NewPurchaseRequest(step.Purchase), 0)
			cancel()
			callbacks.OnTriggerUpdate(ctx, requestID, entitlement(result.Kind == schema.PurchaseResultSuccess, schema.GateSourcePurchase))
		case step.Restore:
			waitCtx, cancel := p.waitContext(ctx)
			result := callbacks.AwaitRestoreResult(waitCtx, schema.NewRestoreRequest(), 0)
			cancel()
			callbacks.OnTriggerUpdate(ctx, requestID, entitlement(result.Kind == schema.RestoreResultSuccess, schema.GateSourceRestore))
		}
	}
}

// waitContext bounds a callback wait by the provider's own wait timeout, if any.
func (p *Provider) waitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.wait <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.wait)
}

func entitlement(allowed bool, source schema.GateSource) *schema.TriggerUpdate {
	if allowed {
		return schema.NewEntitlementUpdate(schema.EntitlementAllowed, source)
	}
	return schema.NewEntitlementUpdate(schema.EntitlementDenied, "")
}

func (p *Provider) CancelTrigger(ctx context.Context, requestID string) error {
	if err := p.guard(schema.MethodTriggerCancel); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.cancelled[requestID] = true
	return nil
}

func (p *Provider) ShowFlow(ctx context.Context, flowID string) error {
	if err := p.guard(schema.MethodFlowShow); err != nil {
		return err
	}
	if callbacks := p.getCallbacks(); callbacks != nil {
		callbacks.OnFlowPresented(ctx, flowID)
	}
	return nil
}

// DismissFlow reports a dismissed flow to the bridge.
func (p *Provider) DismissFlow(ctx context.Context, dismissed *schema.FlowDismissed) {
	if callbacks := p.getCallbacks(); callbacks != nil {
		callbacks.OnFlowDismissed(ctx, dismissed)
	}
}

func (p *Provider) RefreshProfile(ctx context.Context) (*schema.Profile, error) {
	if err := p.guard(schema.MethodProfileRefresh); err != nil {
		return nil, err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	customerID := p.distinctID
	if customerID == "" {
		customerID = p.anonymousID
	}
	return &schema.Profile{CustomerID: customerID, Raw: codec.Payload(p.properties).Encode()}, nil
}

func (p *Provider) access(featureID string) *schema.FeatureAccess {
	if access, ok := p.features[featureID]; ok {
		ret := *access
		if access.Balance != nil {
			balance := *access.Balance
			ret.Balance = &balance
		}
		return &ret
	}
	return &schema.FeatureAccess{Type: schema.FeatureTypeBoolean}
}

func (p *Provider) HasFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string) (*schema.FeatureAccess, error) {
	if err := p.guard(schema.MethodFeatureHas); err != nil {
		return nil, err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	access := p.access(featureID)
	if requiredBalance != nil && access.Balance != nil && !access.Unlimited && *access.Balance < *requiredBalance {
		access.Allowed = false
	}
	return access, nil
}

func (p *Provider) CheckFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string, forceRefresh bool) (*schema.FeatureCheck, error) {
	access, err := p.HasFeature(ctx, featureID, requiredBalance, entityID)
	if err != nil {
		return nil, err
	}
	required := 1
	if requiredBalance != nil {
		required = *requiredBalance
	}
	code := "feature_found"
	if _, ok := p.features[featureID]; !ok {
		code = "feature_not_found"
	}
	customerID, _ := p.DistinctID(ctx)
	return &schema.FeatureCheck{CustomerID: customerID, FeatureID: featureID, RequiredBalance: required, Code: code, Access: *access}, nil
}

// consume deducts amount from a metered balance and reports the change.
func (p *Provider) consume(ctx context.Context, featureID string, amount float64) (*schema.FeatureAccess, *schema.FeatureAccess) {
	p.mux.Lock()
	stored, ok := p.features[featureID]
	if !ok || stored.Balance == nil || stored.Unlimited {
		p.queued++
		p.mux.Unlock()
		return nil, nil
	}
	from := p.access(featureID)
	balance := *stored.Balance - int(amount)
	if balance < 0 {
		balance = 0
	}
	stored.Balance = &balance
	stored.Allowed = balance > 0
	to := p.access(featureID)
	p.queued++
	callbacks := p.callbacks
	p.mux.Unlock()

	if callbacks != nil {
		callbacks.OnFeatureAccessChanged(ctx, &schema.FeatureAccessChange{FeatureID: featureID, From: from, To: to})
	}
	return from, to
}

func (p *Provider) UseFeature(ctx context.Context, featureID string, amount float64, entityID string, metadata map[string]string) error {
	if err := p.guard(schema.MethodFeatureUse); err != nil {
		return err
	}
	p.consume(ctx, featureID, amount)
	return nil
}

func (p *Provider) UseFeatureAndWait(ctx context.Context, featureID string, amount float64, entityID string, setUsage bool, metadata map[string]string) (*schema.FeatureUsage, error) {
	if err := p.guard(schema.MethodFeatureUseAndWait); err != nil {
		return nil, err
	}
	from, to := p.consume(ctx, featureID, amount)
	usage := &schema.FeatureUsage{Success: true, FeatureID: featureID, AmountUsed: amount}
	if to != nil {
		current := float64(*from.Balance - *to.Balance)
		remaining := float64(*to.Balance)
		usage.UsageCurrent = &current
		usage.UsageRemaining = &remaining
	}
	return usage, nil
}

func (p *Provider) FlushEvents(ctx context.Context) (bool, error) {
	if err := p.guard(schema.MethodEventsFlush); err != nil {
		return false, err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.paused {
		return false, nil
	}
	p.queued = 0
	return true, nil
}

func (p *Provider) QueuedEventCount(ctx context.Context) (int, error) {
	if err := p.guard(schema.MethodEventsCount); err != nil {
		return 0, err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.queued, nil
}

func (p *Provider) PauseEventQueue(ctx context.Context) error {
	if err := p.guard(schema.MethodEventsPause); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.paused = true
	return nil
}

func (p *Provider) ResumeEventQueue(ctx context.Context) error {
	if err := p.guard(schema.MethodEventsResume); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.paused = false
	return nil
}

func (p *Provider) CompletePurchase(ctx context.Context, requestID string, result *schema.PurchaseResult) error {
	if err := p.guard(schema.MethodPurchaseComplete); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.purchases[requestID] = result
	return nil
}

func (p *Provider) CompleteRestore(ctx context.Context, requestID string, result *schema.RestoreResult) error {
	if err := p.guard(schema.MethodRestoreComplete); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.restores[requestID] = result
	return nil
}

// Purchase runs a purchase outside of any trigger.
func (p *Provider) Purchase(ctx context.Context, productID string) *schema.PurchaseResult {
	callbacks := p.getCallbacks()
	if callbacks == nil {
		return schema.PurchaseFailed(ErrNotConfigured.Error())
	}
	return callbacks.AwaitPurchaseResult(ctx, schema.NewPurchaseRequest(productID), 0)
}

// Restore runs a restore outside of any trigger.
func (p *Provider) Restore(ctx context.Context) *schema.RestoreResult {
	callbacks := p.getCallbacks()
	if callbacks == nil {
		return schema.RestoreFailed(ErrNotConfigured.Error())
	}
	return callbacks.AwaitRestoreResult(ctx, schema.NewRestoreRequest(), 0)
}

// CompletedPurchase returns the result the host reported for requestID.
func (p *Provider) CompletedPurchase(requestID string) (*schema.PurchaseResult, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	ret, ok := p.purchases[requestID]
	return ret, ok
}

// CompletedRestore returns the result the host reported for requestID.
func (p *Provider) CompletedRestore(requestID string) (*schema.RestoreResult, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	ret, ok := p.restores[requestID]
	return ret, ok
}

// Configured returns the api key and options of the current session.
func (p *Provider) Configured() (string, *schema.ConfigureOptions, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.apiKey, p.options, p.configured
}

// Wait blocks until asynchronous trigger scripts finish.
func (p *Provider) Wait() {
	p.running.Wait()
}

// New creates a mock provider
func New(options ...Option) *Provider {
	ret := &Provider{
		scripts:     map[string][]Step{},
		features:    map[string]*schema.FeatureAccess{},
		failures:    map[string]error{},
		anonymousID: uuid.NewString(),
		properties:  map[string]string{},
		cancelled:   map[string]bool{},
		purchases:   map[string]*schema.PurchaseResult{},
		restores:    map[string]*schema.RestoreResult{},
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

var _ provider.Provider = (*Provider)(nil)
