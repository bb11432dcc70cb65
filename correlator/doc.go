// Package correlator turns request/response exchanges whose answer arrives on another
// goroutine into addressable pending operations.
//
// A caller registers an id with Create and blocks in Await; some other goroutine resolves
// the id with Complete or Cancel. Removal from the pending set is atomic, so exactly one of
// completion, cancellation or the await deadline resolves an operation, and the losers
// observe a no-op. Completions for ids that are not pending are dropped, never buffered.
package correlator
