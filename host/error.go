package host

import (
	"errors"

	"github.com/viant/capbridge/bridge"
	"github.com/viant/capbridge/schema"
	"github.com/viant/jsonrpc"
)

// asRPCError maps facade and provider errors to JSON-RPC errors.
func asRPCError(err error) *jsonrpc.Error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, bridge.ErrNotConfigured):
		return schema.NewNotConfigured(err.Error())
	case errors.Is(err, bridge.ErrEmptyAPIKey), errors.Is(err, bridge.ErrEmptyRequestID),
		errors.Is(err, bridge.ErrInvalidWrapperVersion):
		return jsonrpc.NewInvalidParamsError(err.Error(), nil)
	case errors.Is(err, bridge.ErrAlreadyConfigured), errors.Is(err, bridge.ErrNoProvider):
		return jsonrpc.NewInvalidRequest(err.Error(), nil)
	}
	return schema.NewProviderFailed(schema.AsError(err))
}
