// Package host exposes the bridge facade to a host process over JSON-RPC.
//
// Each transport gets its own Handler. Requests map one to one onto facade operations
// (see the Method constants in package schema), and when event notifications are enabled
// the transport also becomes the facade's event sink, so the host receives trigger updates
// and purchase requests as JSON-RPC notifications on the same channel.
//
// trigger/start returns as soon as the stream is registered; its updates follow as
// events/triggerUpdate notifications.
package host
