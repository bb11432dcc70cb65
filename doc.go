// Package capbridge wires a capability bridge from configuration.
//
// The bridge lets a host that exchanges only scalar values drive a partly asynchronous
// capability SDK (feature gating, purchase orchestration, streamed trigger decisions).
// The building blocks live in subpackages:
//   - codec: the flat key=value&key=value payload format
//   - schema: domain values and their payload mapping
//   - correlator: pending purchase and restore operations with timeout
//   - bridge: the facade the host calls
//   - sink: event delivery to a listener, a JSON-RPC peer or NATS
//   - host: the JSON-RPC adapter used by cmd/capbridge
//
// New assembles a facade for a provider using a config.Config:
//
//	cfg, _ := config.Load()
//	rt, _ := capbridge.New(&capbridge.Options{Config: cfg, Provider: myProvider})
//	defer rt.Close()
//	_ = rt.Configure(ctx, apiKey, "", true)
package capbridge
