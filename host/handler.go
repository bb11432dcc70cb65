package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/capbridge/schema"
	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
)

// Handler serves one transport.
type Handler struct {
	transport.Notifier
	*Service
}

// Serve handles incoming JSON-RPC requests
func (h *Handler) Serve(parent context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	if jsonrpc.Version != request.Jsonrpc {
		response.Error = jsonrpc.NewInvalidRequest("invalid JSON-RPC version", nil)
		return
	}
	ctx, cancel := context.WithCancel(parent)
	if id, _ := jsonrpc.AsRequestIntId(request.Id); id != 0 {
		h.activeContexts.Put(id, newActiveContext(ctx, cancel))
		defer h.cancelOperation(id)
	} else {
		defer cancel()
	}

	switch request.Method {
	case schema.MethodConfigure:
		result, err := h.configure(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodShutdown:
		result, err := h.shutdown(ctx)
		h.setResponse(response, result, err)
	case schema.MethodIdentify:
		result, err := h.identify(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodReset:
		result, err := h.reset(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodIdentityGet:
		result, err := h.identity(ctx)
		h.setResponse(response, result, err)
	case schema.MethodTriggerStart:
		result, err := h.startTrigger(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodTriggerCancel:
		result, err := h.cancelTrigger(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodFlowShow:
		result, err := h.showFlow(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodProfileRefresh:
		result, err := h.refreshProfile(ctx)
		h.setResponse(response, result, err)
	case schema.MethodFeatureHas:
		result, err := h.hasFeature(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodFeatureCheck:
		result, err := h.checkFeature(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodFeatureUse:
		result, err := h.useFeature(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodFeatureUseAndWait:
		result, err := h.useFeatureAndWait(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodEventsFlush:
		result, err := h.flushEvents(ctx)
		h.setResponse(response, result, err)
	case schema.MethodEventsCount:
		result, err := h.queuedEventCount(ctx)
		h.setResponse(response, result, err)
	case schema.MethodEventsPause:
		result, err := h.pauseEvents(ctx)
		h.setResponse(response, result, err)
	case schema.MethodEventsResume:
		result, err := h.resumeEvents(ctx)
		h.setResponse(response, result, err)
	case schema.MethodPurchaseComplete:
		result, err := h.completePurchase(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodRestoreComplete:
		result, err := h.completeRestore(ctx, request)
		h.setResponse(response, result, err)
	default:
		response.Error = jsonrpc.NewMethodNotFound(fmt.Sprintf("method: %v not found", request.Method), request.Params)
	}
}

func (h *Handler) setResponse(response *jsonrpc.Response, result interface{}, rpcError *jsonrpc.Error) {
	if rpcError != nil {
		response.Error = rpcError
		return
	}
	var err error
	response.Result, err = json.Marshal(result)
	if err != nil {
		response.Error = jsonrpc.NewInternalError(err.Error(), []byte{})
	}
}

// OnNotification handles incoming JSON-RPC notifications
func (h *Handler) OnNotification(ctx context.Context, notification *jsonrpc.Notification) {
	switch notification.Method {
	case schema.MethodNotificationCancel:
		h.Cancel(ctx, notification)
	}
}
