package bridge

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/provider/mock"
	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
)

func newBridge(t *testing.T, provider *mock.Provider, options ...Option) (*Bridge, *sink.Recorder) {
	t.Helper()
	recorder, s := sink.NewRecorder()
	options = append([]Option{WithProvider(provider), WithSink(s)}, options...)
	b := New(options...)
	require.NoError(t, b.Configure(context.Background(), "key", "", false))
	return b, recorder
}

func decodeUpdate(event *sink.Event) *schema.TriggerUpdate {
	ret := &schema.TriggerUpdate{}
	codec.Unmarshal(event.Payload, ret)
	return ret
}

func TestBridge_Configure(t *testing.T) {
	testCases := []struct {
		description string
		apiKey      string
		options     string
		version     string
		failure     error
		expectErr   error
		expectAny   bool
	}{
		{description: "empty api key", apiKey: "", expectErr: ErrEmptyAPIKey},
		{description: "configured", apiKey: "key", options: "locale=pl_PL"},
		{description: "invalid wrapper version", apiKey: "key", version: "not-a-version", expectErr: ErrInvalidWrapperVersion},
		{description: "provider failure", apiKey: "key", failure: errors.New("boom"), expectAny: true},
	}
	for _, tc := range testCases {
		var options []mock.Option
		if tc.failure != nil {
			options = append(options, mock.WithFailure(schema.MethodConfigure, tc.failure))
		}
		provider := mock.New(options...)
		b := New(WithProvider(provider), WithWrapperVersion(tc.version))
		err := b.Configure(context.Background(), tc.apiKey, tc.options, true)
		switch {
		case tc.expectErr != nil:
			assert.ErrorIs(t, err, tc.expectErr, tc.description)
			assert.False(t, b.IsConfigured(), tc.description)
		case tc.expectAny:
			assert.Error(t, err, tc.description)
			assert.False(t, b.IsConfigured(), tc.description)
		default:
			require.NoError(t, err, tc.description)
			assert.True(t, b.IsConfigured(), tc.description)
			_, configureOptions, ok := provider.Configured()
			require.True(t, ok, tc.description)
			assert.Equal(t, "pl_PL", configureOptions.Locale, tc.description)
		}
	}
}

func TestBridge_ConfigureInjectsWrapperVersion(t *testing.T) {
	provider := mock.New()
	b := New(WithProvider(provider), WithWrapperVersion("1.4.0"))
	require.NoError(t, b.Configure(context.Background(), "key", "wrapper_version=0.0.1", false))
	_, options, _ := provider.Configured()
	assert.Equal(t, "1.4.0", options.WrapperVersion)

	assert.ErrorIs(t, b.Configure(context.Background(), "key", "", false), ErrAlreadyConfigured)
	require.NoError(t, b.Shutdown(context.Background()))
	assert.NoError(t, b.Configure(context.Background(), "key", "", false))
}

func TestBridge_NotConfigured(t *testing.T) {
	ctx := context.Background()
	b := New(WithProvider(mock.New()))
	assert.ErrorIs(t, b.Shutdown(ctx), ErrNotConfigured)
	assert.ErrorIs(t, b.Identify(ctx, "u1", "", ""), ErrNotConfigured)
	assert.ErrorIs(t, b.StartTrigger(ctx, "r1", "paywall", ""), ErrNotConfigured)
	assert.ErrorIs(t, b.CancelTrigger(ctx, "r1"), ErrNotConfigured)
	_, err := b.HasFeature(ctx, "f", nil, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = b.CompletePurchase(ctx, "p1", "kind=success")
	assert.ErrorIs(t, err, ErrNotConfigured)

	result := b.AwaitPurchaseResult(ctx, schema.NewPurchaseRequest("pro"), time.Second)
	assert.Equal(t, schema.PurchaseResultFailed, result.Kind)
}

func TestBridge_TriggerStream(t *testing.T) {
	provider := mock.New(mock.WithScript("paywall", mock.Updates(
		schema.NewDecisionUpdate(schema.DecisionJourneyStarted, &schema.JourneyRef{JourneyID: "j1", CampaignID: "c1"}),
		schema.NewEntitlementUpdate(schema.EntitlementAllowed, schema.GateSourceCache),
	)...))
	b, recorder := newBridge(t, provider)

	require.NoError(t, b.StartTrigger(context.Background(), "r1", "paywall", "properties=level%3D3"))
	events := recorder.Events(schema.EventTriggerUpdate)
	require.Len(t, events, 2)

	assert.Equal(t, "r1", events[0].RequestID)
	assert.False(t, events[0].Terminal)
	first := decodeUpdate(events[0])
	assert.Equal(t, schema.DecisionJourneyStarted, first.Decision.Kind)
	assert.Equal(t, "j1", first.Decision.Ref.JourneyID)

	assert.True(t, events[1].Terminal)
	second := decodeUpdate(events[1])
	assert.Equal(t, schema.EntitlementAllowed, second.Entitlement.Kind)
	assert.Empty(t, b.ActiveTriggers())
}

func TestBridge_SetSinkAfterConfigure(t *testing.T) {
	b, previous := newBridge(t, mock.New())
	recorder, s := sink.NewRecorder()
	b.SetSink(s)

	require.NoError(t, b.StartTrigger(context.Background(), "r1", "anything", ""))
	assert.Len(t, recorder.Events(schema.EventTriggerUpdate), 1)
	assert.Empty(t, previous.Events())
}

func TestBridge_UpdateAfterTerminalIsDelivered(t *testing.T) {
	b, recorder := newBridge(t, mock.New(mock.WithScript("idle")))
	require.NoError(t, b.StartTrigger(context.Background(), "r1", "idle", ""))
	assert.Equal(t, []string{"r1"}, b.ActiveTriggers())

	b.OnTriggerUpdate(context.Background(), "r1", schema.NewDecisionUpdate(schema.DecisionNoMatch, nil))
	assert.Empty(t, b.ActiveTriggers())
	b.OnTriggerUpdate(context.Background(), "r1", schema.NewErrorUpdate("late", "after terminal"))
	assert.Len(t, recorder.Events(schema.EventTriggerUpdate), 2)
}

func TestBridge_StartTriggerFailure(t *testing.T) {
	provider := mock.New(mock.WithFailure(schema.MethodTriggerStart, schema.NewError("SDK", "offline")))
	b, recorder := newBridge(t, provider)

	assert.NoError(t, b.StartTrigger(context.Background(), "r1", "paywall", ""))
	events := recorder.Events(schema.EventTriggerUpdate)
	require.Len(t, events, 1)
	assert.True(t, events[0].Terminal)
	update := decodeUpdate(events[0])
	require.Equal(t, schema.TriggerUpdateError, update.Kind)
	assert.Equal(t, schema.CodeTriggerFailed, update.Error.Code)
	assert.Contains(t, update.Error.Message, "offline")
	assert.Empty(t, b.ActiveTriggers())
}

func TestBridge_ReentrantPurchaseCompletion(t *testing.T) {
	provider := mock.New(mock.WithScript("paywall", mock.Step{Purchase: "pro_monthly"}))
	b, recorder := newBridge(t, provider)
	ctx := context.Background()

	var requestID string
	recorder.OnEvent = func(event *sink.Event) {
		if event.Name != schema.EventPurchaseRequest {
			return
		}
		request := &schema.PurchaseRequest{}
		codec.Unmarshal(event.Payload, request)
		requestID = request.RequestID
		result := codec.Marshal(&schema.PurchaseResult{Kind: schema.PurchaseResultSuccess, ProductID: request.ProductID, OrderID: "o1"})
		resolved, err := b.CompletePurchase(ctx, request.RequestID, result)
		assert.NoError(t, err)
		assert.True(t, resolved)
	}

	require.NoError(t, b.StartTrigger(ctx, "r1", "paywall", ""))
	events := recorder.Events(schema.EventTriggerUpdate)
	require.Len(t, events, 1)
	update := decodeUpdate(events[0])
	assert.Equal(t, schema.EntitlementAllowed, update.Entitlement.Kind)
	assert.Equal(t, schema.GateSourcePurchase, update.Entitlement.Source)

	forwarded, ok := provider.CompletedPurchase(requestID)
	require.True(t, ok)
	assert.Equal(t, "o1", forwarded.OrderID)
	assert.Equal(t, 0, b.PendingOperations())

	resolved, err := b.CompletePurchase(ctx, requestID, "kind=success")
	assert.NoError(t, err)
	assert.False(t, resolved)
}

func TestBridge_ReentrantRestoreCompletion(t *testing.T) {
	provider := mock.New()
	b, recorder := newBridge(t, provider)
	ctx := context.Background()
	recorder.OnEvent = func(event *sink.Event) {
		if event.Name != schema.EventRestoreRequest {
			return
		}
		request := &schema.RestoreRequest{}
		codec.Unmarshal(event.Payload, request)
		_, err := b.CompleteRestore(ctx, request.RequestID, "kind=success&restored_count=2")
		assert.NoError(t, err)
	}
	result := provider.Restore(ctx)
	assert.Equal(t, schema.RestoreResultSuccess, result.Kind)
	assert.Equal(t, 2, result.RestoredCount)
}

func TestBridge_PurchaseTimeout(t *testing.T) {
	provider := mock.New()
	b, recorder := newBridge(t, provider, WithTimeouts(50*time.Millisecond, 50*time.Millisecond))

	started := time.Now()
	result := provider.Purchase(context.Background(), "pro")
	elapsed := time.Since(started)
	assert.Equal(t, schema.PurchaseResultFailed, result.Kind)
	assert.Equal(t, schema.PurchaseTimeout, result.Message)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	assert.Len(t, recorder.Events(schema.EventPurchaseRequest), 1)
	assert.Equal(t, 0, b.PendingOperations())

	restore := provider.Restore(context.Background())
	assert.Equal(t, schema.RestoreTimeout, restore.Message)
}

func TestBridge_CancelTriggerReleasesPurchase(t *testing.T) {
	provider := mock.New(mock.WithAsync(), mock.WithScript("paywall", mock.Step{Purchase: "pro"}))
	b, recorder := newBridge(t, provider)
	ctx := context.Background()
	requested := make(chan string, 1)
	recorder.OnEvent = func(event *sink.Event) {
		if event.Name == schema.EventPurchaseRequest {
			request := &schema.PurchaseRequest{}
			codec.Unmarshal(event.Payload, request)
			requested <- request.RequestID
		}
	}

	require.NoError(t, b.StartTrigger(ctx, "r1", "paywall", ""))
	var requestID string
	select {
	case requestID = <-requested:
	case <-time.After(5 * time.Second):
		t.Fatal("purchase request was not emitted")
	}
	require.Eventually(t, func() bool { return b.PendingOperations() == 1 }, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, b.CancelTrigger(ctx, "r1"))
	provider.Wait()

	assert.Equal(t, 0, b.PendingOperations())
	assert.Empty(t, b.ActiveTriggers())
	assert.Empty(t, recorder.Events(schema.EventTriggerUpdate))

	resolved, err := b.CompletePurchase(ctx, requestID, "kind=success")
	assert.NoError(t, err)
	assert.False(t, resolved)
}

func TestBridge_EarlyCompletionIsNotBanked(t *testing.T) {
	b, recorder := newBridge(t, mock.New(), WithTimeouts(30*time.Millisecond, 30*time.Millisecond))
	ctx := context.Background()

	resolved, err := b.CompletePurchase(ctx, "p1", "kind=success&product_id=pro")
	require.NoError(t, err)
	assert.False(t, resolved)
	purchase := b.AwaitPurchaseResult(ctx, &schema.PurchaseRequest{RequestID: "p1", ProductID: "pro"}, 0)
	assert.Equal(t, schema.PurchaseResultFailed, purchase.Kind)
	assert.Equal(t, schema.PurchaseTimeout, purchase.Message)

	resolved, err = b.CompleteRestore(ctx, "s1", "kind=success&restored_count=1")
	require.NoError(t, err)
	assert.False(t, resolved)
	restore := b.AwaitRestoreResult(ctx, &schema.RestoreRequest{RequestID: "s1"}, 0)
	assert.Equal(t, schema.RestoreResultFailed, restore.Kind)
	assert.Equal(t, schema.RestoreTimeout, restore.Message)

	assert.Len(t, recorder.Events(schema.EventPurchaseRequest), 1)
	assert.Equal(t, 0, b.PendingOperations())
}

func TestBridge_AwaitAfterShutdown(t *testing.T) {
	b, recorder := newBridge(t, mock.New())
	ctx := context.Background()
	require.NoError(t, b.Shutdown(ctx))

	for i := 0; i < 2; i++ {
		started := time.Now()
		purchase := b.AwaitPurchaseResult(ctx, &schema.PurchaseRequest{RequestID: "p1"}, time.Minute)
		assert.Equal(t, ErrNotConfigured.Error(), purchase.Message)
		restore := b.AwaitRestoreResult(ctx, &schema.RestoreRequest{RequestID: "s1"}, time.Minute)
		assert.Equal(t, ErrNotConfigured.Error(), restore.Message)
		assert.Less(t, time.Since(started), time.Second)
		assert.Equal(t, 0, b.PendingOperations())
	}
	assert.Empty(t, recorder.Events(schema.EventPurchaseRequest, schema.EventRestoreRequest))
}

func TestBridge_CancelledTriggersAreBounded(t *testing.T) {
	b, recorder := newBridge(t, mock.New(mock.WithScript("idle")))
	ctx := context.Background()

	require.NoError(t, b.StartTrigger(ctx, "r0", "idle", ""))
	require.NoError(t, b.CancelTrigger(ctx, "r0"))
	b.OnTriggerUpdate(ctx, "r0", schema.NewDecisionUpdate(schema.DecisionFlowShown, nil))
	assert.Contains(t, b.cancelled, "r0")
	b.OnTriggerUpdate(ctx, "r0", schema.NewDecisionUpdate(schema.DecisionNoMatch, nil))
	assert.NotContains(t, b.cancelled, "r0")
	assert.Empty(t, recorder.Events(schema.EventTriggerUpdate))

	total := maxCancelledTriggers + 10
	for i := 1; i <= total; i++ {
		requestID := fmt.Sprintf("r%d", i)
		require.NoError(t, b.StartTrigger(ctx, requestID, "idle", ""))
		require.NoError(t, b.CancelTrigger(ctx, requestID))
	}
	assert.Len(t, b.cancelled, maxCancelledTriggers)
	assert.NotContains(t, b.cancelled, "r1")
	assert.Contains(t, b.cancelled, fmt.Sprintf("r%d", total))
	assert.Empty(t, b.ActiveTriggers())
}

func TestBridge_CancelBeforeRun(t *testing.T) {
	b, recorder := newBridge(t, mock.New())
	ctx := context.Background()

	require.NoError(t, b.OpenTrigger("r1", "paywall"))
	require.NoError(t, b.CancelTrigger(ctx, "r1"))
	require.NoError(t, b.RunTrigger(ctx, "r1", "paywall", ""))
	assert.Empty(t, recorder.Events(schema.EventTriggerUpdate))

	assert.ErrorIs(t, b.OpenTrigger("", "paywall"), ErrEmptyRequestID)
	require.NoError(t, b.Shutdown(ctx))
	assert.ErrorIs(t, b.OpenTrigger("r2", "paywall"), ErrNotConfigured)
}

func TestBridge_ShutdownCancelsPending(t *testing.T) {
	provider := mock.New()
	b, _ := newBridge(t, provider)

	results := make(chan *schema.PurchaseResult, 1)
	go func() {
		results <- provider.Purchase(context.Background(), "pro")
	}()
	require.Eventually(t, func() bool { return b.PendingOperations() == 1 }, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, b.Shutdown(context.Background()))
	select {
	case result := <-results:
		assert.Equal(t, schema.PurchaseCancelled, result.Message)
	case <-time.After(5 * time.Second):
		t.Fatal("pending purchase was not released")
	}
	assert.False(t, b.IsConfigured())
}

func TestBridge_Features(t *testing.T) {
	balance := 5
	provider := mock.New(mock.WithFeature("credits", &schema.FeatureAccess{Allowed: true, Balance: &balance, Type: schema.FeatureTypeMetered}))
	b, recorder := newBridge(t, provider)
	ctx := context.Background()

	payload, err := b.HasFeature(ctx, "credits", nil, "")
	require.NoError(t, err)
	access := &schema.FeatureAccess{}
	codec.Unmarshal(payload, access)
	assert.True(t, access.Allowed)
	require.NotNil(t, access.Balance)
	assert.Equal(t, 5, *access.Balance)

	payload, err = b.CheckFeature(ctx, "credits", nil, "", true)
	require.NoError(t, err)
	check := &schema.FeatureCheck{}
	codec.Unmarshal(payload, check)
	assert.Equal(t, "credits", check.FeatureID)

	require.NoError(t, b.UseFeature(ctx, "credits", 2, "", "source=test"))
	changes := recorder.Events(schema.EventFeatureAccessChanged)
	require.Len(t, changes, 1)
	to := &schema.FeatureAccess{}
	codec.Unmarshal(changes[0].To, to)
	require.NotNil(t, to.Balance)
	assert.Equal(t, 3, *to.Balance)

	payload, err = b.UseFeatureAndWait(ctx, "credits", 1, "", true, "")
	require.NoError(t, err)
	usage := &schema.FeatureUsage{}
	codec.Unmarshal(payload, usage)
	assert.True(t, usage.Success)
	assert.Equal(t, 1.0, usage.AmountUsed)
}

func TestBridge_FeatureAccessChangeWithoutSnapshot(t *testing.T) {
	b, recorder := newBridge(t, mock.New())
	b.OnFeatureAccessChanged(context.Background(), &schema.FeatureAccessChange{FeatureID: "f", To: &schema.FeatureAccess{Allowed: true}})
	events := recorder.Events(schema.EventFeatureAccessChanged)
	require.Len(t, events, 1)
	assert.Equal(t, "", events[0].From)
	assert.NotEmpty(t, events[0].To)
}

func TestBridge_ProviderErrors(t *testing.T) {
	failure := schema.NewError("SDK_ERROR", "feature service down")
	provider := mock.New(
		mock.WithFailure(schema.MethodFeatureHas, failure),
		mock.WithFailure(schema.MethodIdentify, failure),
		mock.WithFailure(schema.MethodPurchaseComplete, failure),
	)
	b, _ := newBridge(t, provider)
	ctx := context.Background()

	_, err := b.HasFeature(ctx, "f", nil, "")
	var providerErr *schema.Error
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "SDK_ERROR", providerErr.Code)
	assert.ErrorIs(t, b.Identify(ctx, "u1", "", ""), failure)

	resolved, err := b.CompletePurchase(ctx, "unknown", "kind=success")
	assert.False(t, resolved)
	assert.ErrorIs(t, err, failure)
}

func TestBridge_IdentityAndFlow(t *testing.T) {
	provider := mock.New()
	b, recorder := newBridge(t, provider)
	ctx := context.Background()

	require.NoError(t, b.Identify(ctx, "user-1", "plan=pro", ""))
	identity, err := b.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.DistinctID)
	assert.True(t, identity.IsIdentified)

	profile, err := b.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.Contains(t, profile, "user-1")

	require.NoError(t, b.ShowFlow(ctx, "flow-1"))
	provider.DismissFlow(ctx, &schema.FlowDismissed{FlowID: "flow-1", Reason: "closed"})
	presented := recorder.Events(schema.EventFlowPresented)
	require.Len(t, presented, 1)
	assert.Equal(t, "flow-1", presented[0].FlowID)
	dismissed := recorder.Events(schema.EventFlowDismissed)
	require.Len(t, dismissed, 1)
	assert.Contains(t, dismissed[0].Payload, "reason=closed")

	require.NoError(t, b.Reset(ctx, true))
	identified, err := b.IsIdentified(ctx)
	require.NoError(t, err)
	assert.False(t, identified)
}
