// Package client is a typed JSON-RPC client for a capbridge host.
//
// Client sends requests over any jsonrpc transport. Handler is the transport handler for
// the host's event notifications; it decodes each notification and passes it to a
// sink.Listener, so a Go process can drive a remote bridge the same way it would an
// embedded one.
package client
