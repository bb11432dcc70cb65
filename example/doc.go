// Package example contains runnable snippets showing how to embed the bridge with an
// in-process listener and how a host answers purchase requests.
package example
