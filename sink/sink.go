// Package sink delivers bridge events to exactly one destination: an in-process listener
// or an external publisher such as a JSON-RPC peer or a NATS subject.
package sink

import (
	"context"
	"strings"

	"github.com/viant/capbridge/schema"
)

// Sink receives every event the bridge emits. Payloads are encoded flat payloads.
type Sink interface {
	TriggerUpdate(ctx context.Context, requestID, payload string, terminal bool, timestampMs int64) error
	FeatureAccessChanged(ctx context.Context, featureID, from, to string, timestampMs int64) error
	PurchaseRequest(ctx context.Context, payload string) error
	RestoreRequest(ctx context.Context, payload string) error
	FlowPresented(ctx context.Context, flowID string, timestampMs int64) error
	FlowDismissed(ctx context.Context, payload string, timestampMs int64) error
}

// Event is the transport neutral form of an emitted event.
type Event struct {
	Name        string `json:"-"`
	RequestID   string `json:"requestId,omitempty"`
	FeatureID   string `json:"featureId,omitempty"`
	FlowID      string `json:"flowId,omitempty"`
	Payload     string `json:"payload,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Terminal    bool   `json:"terminal,omitempty"`
	TimestampMs int64  `json:"timestampMs,omitempty"`
}

// Topic returns the event name without its namespace, e.g. "triggerUpdate".
func (e *Event) Topic() string {
	if i := strings.LastIndex(e.Name, "/"); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}

// Publisher delivers a single event.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

type publisherSink struct {
	publisher Publisher
}

func (s *publisherSink) TriggerUpdate(ctx context.Context, requestID, payload string, terminal bool, timestampMs int64) error {
	return s.publisher.Publish(ctx, &Event{Name: schema.EventTriggerUpdate, RequestID: requestID, Payload: payload, Terminal: terminal, TimestampMs: timestampMs})
}

func (s *publisherSink) FeatureAccessChanged(ctx context.Context, featureID, from, to string, timestampMs int64) error {
	return s.publisher.Publish(ctx, &Event{Name: schema.EventFeatureAccessChanged, FeatureID: featureID, From: from, To: to, TimestampMs: timestampMs})
}

func (s *publisherSink) PurchaseRequest(ctx context.Context, payload string) error {
	return s.publisher.Publish(ctx, &Event{Name: schema.EventPurchaseRequest, Payload: payload})
}

func (s *publisherSink) RestoreRequest(ctx context.Context, payload string) error {
	return s.publisher.Publish(ctx, &Event{Name: schema.EventRestoreRequest, Payload: payload})
}

func (s *publisherSink) FlowPresented(ctx context.Context, flowID string, timestampMs int64) error {
	return s.publisher.Publish(ctx, &Event{Name: schema.EventFlowPresented, FlowID: flowID, TimestampMs: timestampMs})
}

func (s *publisherSink) FlowDismissed(ctx context.Context, payload string, timestampMs int64) error {
	return s.publisher.Publish(ctx, &Event{Name: schema.EventFlowDismissed, Payload: payload, TimestampMs: timestampMs})
}

// New adapts a publisher into a sink
func New(publisher Publisher) Sink {
	return &publisherSink{publisher: publisher}
}
