package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/capbridge/internal/conv"
	"github.com/viant/jsonrpc"
)

type cancelParams struct {
	RequestID interface{} `json:"requestId"`
	Reason    string      `json:"reason,omitempty"`
}

// Cancel handles a $/cancelRequest notification.
func (h *Handler) Cancel(_ context.Context, notification *jsonrpc.Notification) *jsonrpc.Error {
	var params cancelParams
	if err := json.Unmarshal(notification.Params, &params); err != nil {
		return jsonrpc.NewParsingError(fmt.Sprintf("failed to parse notification: %v", err), notification.Params)
	}
	id := conv.AsInt(params.RequestID)
	if id == 0 {
		return jsonrpc.NewInvalidParamsError("invalid requestId", notification.Params)
	}
	h.cancelOperation(id)
	return nil
}
