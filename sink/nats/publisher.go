// Package nats publishes bridge events to NATS subjects named <prefix>.<event>.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"
	"github.com/viant/capbridge/sink"
)

const logPrefix = "nats:publisher"

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "capbridge.events"

// Publisher publishes events as JSON messages.
type Publisher struct {
	nc     *comms.Conn
	prefix string
}

// Subject returns the subject an event is published to.
func (p *Publisher) Subject(event *sink.Event) string {
	return p.prefix + "." + event.Topic()
}

func (p *Publisher) Publish(_ context.Context, event *sink.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", logPrefix, err)
	}
	subject := p.Subject(event)
	if err := p.nc.Publish(subject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", logPrefix, subject, err))
		return err
	}
	slog.Debug(fmt.Sprintf("%s - published %s", logPrefix, subject))
	return nil
}

// NewPublisher creates a publisher; an empty prefix selects DefaultSubjectPrefix.
func NewPublisher(nc *comms.Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{nc: nc, prefix: prefix}
}

// New creates a sink publishing through nc
func New(nc *comms.Conn, prefix string) sink.Sink {
	return sink.New(NewPublisher(nc, prefix))
}
