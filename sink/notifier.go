package sink

import (
	"context"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
)

// Notifier publishes events as JSON-RPC notifications named after the event.
type Notifier struct {
	notifier transport.Notifier
}

func (n *Notifier) Publish(ctx context.Context, event *Event) error {
	notification, err := jsonrpc.NewNotification(event.Name, event)
	if err != nil {
		return err
	}
	return n.notifier.Notify(ctx, notification)
}

// NewNotifier creates a sink emitting through a JSON-RPC peer
func NewNotifier(notifier transport.Notifier) Sink {
	return New(&Notifier{notifier: notifier})
}
