package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/correlator"
	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
)

func purchaseFallback(_ correlator.Kind, outcome correlator.Outcome) *schema.PurchaseResult {
	if outcome == correlator.Cancelled {
		return schema.PurchaseFailed(schema.PurchaseCancelled)
	}
	return schema.PurchaseFailed(schema.PurchaseTimeout)
}

func restoreFallback(_ correlator.Kind, outcome correlator.Outcome) *schema.RestoreResult {
	if outcome == correlator.Cancelled {
		return schema.RestoreFailed(schema.RestoreCancelled)
	}
	return schema.RestoreFailed(schema.RestoreTimeout)
}

// AwaitPurchaseResult publishes request and blocks until the host completes it, the
// timeout elapses or ctx is done. The pending operation is registered before the request
// is emitted, so the host may complete it from inside its sink handler.
func (b *Bridge) AwaitPurchaseResult(ctx context.Context, request *schema.PurchaseRequest, timeout time.Duration) *schema.PurchaseResult {
	if request == nil || request.RequestID == "" {
		return schema.PurchaseFailed("invalid purchase request")
	}
	if timeout <= 0 {
		timeout = b.purchaseTimeout
	}
	pending, err := b.purchases.Create(request.RequestID, correlator.Purchase)
	if err != nil {
		return schema.PurchaseFailed(err.Error())
	}
	// checked after Create: a Shutdown either sees the entry in CancelAll or is seen here
	if !b.IsConfigured() {
		b.purchases.Cancel(request.RequestID)
		return schema.PurchaseFailed(ErrNotConfigured.Error())
	}
	trigger := triggerID(ctx)
	if !b.own(trigger, request.RequestID, correlator.Purchase) {
		b.purchases.Cancel(request.RequestID)
		return b.purchases.AwaitPending(ctx, pending, timeout)
	}
	defer b.disown(trigger, request.RequestID)

	payload := codec.Marshal(request)
	b.emit(ctx, schema.EventPurchaseRequest, func(ctx context.Context, s sink.Sink) error {
		return s.PurchaseRequest(ctx, payload)
	})
	return b.purchases.AwaitPending(ctx, pending, timeout)
}

// AwaitRestoreResult is the restore counterpart of AwaitPurchaseResult.
func (b *Bridge) AwaitRestoreResult(ctx context.Context, request *schema.RestoreRequest, timeout time.Duration) *schema.RestoreResult {
	if request == nil || request.RequestID == "" {
		return schema.RestoreFailed("invalid restore request")
	}
	if timeout <= 0 {
		timeout = b.restoreTimeout
	}
	pending, err := b.restores.Create(request.RequestID, correlator.Restore)
	if err != nil {
		return schema.RestoreFailed(err.Error())
	}
	// checked after Create: a Shutdown either sees the entry in CancelAll or is seen here
	if !b.IsConfigured() {
		b.restores.Cancel(request.RequestID)
		return schema.RestoreFailed(ErrNotConfigured.Error())
	}
	trigger := triggerID(ctx)
	if !b.own(trigger, request.RequestID, correlator.Restore) {
		b.restores.Cancel(request.RequestID)
		return b.restores.AwaitPending(ctx, pending, timeout)
	}
	defer b.disown(trigger, request.RequestID)

	payload := codec.Marshal(request)
	b.emit(ctx, schema.EventRestoreRequest, func(ctx context.Context, s sink.Sink) error {
		return s.RestoreRequest(ctx, payload)
	})
	return b.restores.AwaitPending(ctx, pending, timeout)
}

// CompletePurchase resolves the pending purchase requestID with the encoded result and
// forwards the result to the provider. It reports whether a pending purchase was resolved;
// a late or duplicate completion reports false without error. A provider error is returned
// but does not undo the resolution.
func (b *Bridge) CompletePurchase(ctx context.Context, requestID, result string) (bool, error) {
	p, err := b.session()
	if err != nil {
		return false, err
	}
	decoded := &schema.PurchaseResult{}
	codec.Unmarshal(result, decoded)
	resolved := b.purchases.Complete(requestID, decoded)
	if !resolved {
		slog.Debug(fmt.Sprintf("%s - purchase %q completed late", logPrefix, requestID))
	}
	return resolved, p.CompletePurchase(ctx, requestID, decoded)
}

// CompleteRestore is the restore counterpart of CompletePurchase.
func (b *Bridge) CompleteRestore(ctx context.Context, requestID, result string) (bool, error) {
	p, err := b.session()
	if err != nil {
		return false, err
	}
	decoded := &schema.RestoreResult{}
	codec.Unmarshal(result, decoded)
	resolved := b.restores.Complete(requestID, decoded)
	if !resolved {
		slog.Debug(fmt.Sprintf("%s - restore %q completed late", logPrefix, requestID))
	}
	return resolved, p.CompleteRestore(ctx, requestID, decoded)
}
