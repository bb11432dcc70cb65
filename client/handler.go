package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
	"github.com/viant/jsonrpc"
)

const logPrefix = "client:handler"

// Handler receives host notifications and forwards events to a listener.
type Handler struct {
	listener sink.Listener
}

// Serve rejects requests; a capbridge host only sends notifications.
func (h *Handler) Serve(_ context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	response.Id = request.Id
	response.Jsonrpc = request.Jsonrpc
	response.Error = jsonrpc.NewMethodNotFound(fmt.Sprintf("method %s not found", request.Method), nil)
}

// OnNotification handles notification
func (h *Handler) OnNotification(_ context.Context, notification *jsonrpc.Notification) {
	event := &sink.Event{}
	if err := json.Unmarshal(notification.Params, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - malformed %s notification: %v", logPrefix, notification.Method, err))
		return
	}
	switch notification.Method {
	case schema.EventTriggerUpdate:
		h.listener.OnTriggerUpdate(event.RequestID, event.Payload, event.Terminal, event.TimestampMs)
	case schema.EventFeatureAccessChanged:
		h.listener.OnFeatureAccessChanged(event.FeatureID, event.From, event.To, event.TimestampMs)
	case schema.EventPurchaseRequest:
		h.listener.OnPurchaseRequest(event.Payload)
	case schema.EventRestoreRequest:
		h.listener.OnRestoreRequest(event.Payload)
	case schema.EventFlowPresented:
		h.listener.OnFlowPresented(event.FlowID, event.TimestampMs)
	case schema.EventFlowDismissed:
		h.listener.OnFlowDismissed(event.Payload, event.TimestampMs)
	default:
		slog.Debug(fmt.Sprintf("%s - ignored notification %s", logPrefix, notification.Method))
	}
}

// NewHandler creates a handler forwarding events to listener
func NewHandler(listener sink.Listener) *Handler {
	return &Handler{listener: listener}
}
