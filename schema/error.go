package schema

import (
	"errors"

	"github.com/viant/jsonrpc"
)

// Provider error codes.
const (
	CodeNativeUnavailable = "NATIVE_UNAVAILABLE"
	CodeNativeError       = "NATIVE_ERROR"
	CodeTriggerFailed     = "trigger_failed"
)

// JSON-RPC error codes outside the reserved range.
const (
	NotConfigured  = -32001
	ProviderFailed = -32002
)

// Error is a failure reported by a capability provider.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// NewError creates a provider error
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError returns err as a provider error, wrapping foreign errors under CodeNativeError.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ret *Error
	if errors.As(err, &ret) {
		return ret
	}
	return &Error{Code: CodeNativeError, Message: err.Error()}
}

// NewNotConfigured creates a not configured JSON-RPC error
func NewNotConfigured(message string) *jsonrpc.Error {
	return jsonrpc.NewError(NotConfigured, message, nil)
}

// NewProviderFailed creates a JSON-RPC error carrying the provider error code
func NewProviderFailed(err *Error) *jsonrpc.Error {
	return jsonrpc.NewError(ProviderFailed, err.Message, map[string]interface{}{"code": err.Code})
}
