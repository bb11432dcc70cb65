// Package bridge implements the facade a host application drives to reach a capability
// provider across a scalar-only boundary.
//
// Inbound payloads are decoded with the codec package and results are returned encoded.
// Events (trigger updates, feature access changes, purchase and restore requests, flow
// presentation and dismissal) go to a single configured sink. Purchase and restore
// exchanges are correlated by request id: the provider blocks in AwaitPurchaseResult or
// AwaitRestoreResult until the host calls CompletePurchase or CompleteRestore, or until the
// timeout elapses.
//
// The bridge mutex only guards session state. It is never held while calling the provider,
// waiting for a host completion or emitting to the sink, so sink handlers may call back
// into the bridge synchronously.
package bridge
