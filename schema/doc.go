// Package schema defines the values exchanged across the host boundary: trigger updates,
// feature results, purchase and restore requests and outcomes, flow events and
// configuration options. Every type maps to and from a flat codec.Payload.
package schema
