package schema

import (
	"github.com/google/uuid"
	"github.com/viant/capbridge/codec"
)

// RestoreRequest asks the host to restore previous purchases.
type RestoreRequest struct {
	RequestID   string
	Platform    string
	TimestampMs int64
}

// NewRestoreRequest creates a request with a generated id
func NewRestoreRequest() *RestoreRequest {
	return &RestoreRequest{RequestID: uuid.NewString(), Platform: Platform, TimestampMs: nowMs()}
}

func (r *RestoreRequest) EncodePayload() codec.Payload {
	return codec.New().
		Set("request_id", r.RequestID).
		Set("platform", r.Platform).
		SetInt64("timestamp_ms", r.TimestampMs)
}

func (r *RestoreRequest) DecodePayload(p codec.Payload) {
	r.RequestID = p.Get("request_id")
	r.Platform = p.Get("platform")
	r.TimestampMs = p.Int64("timestamp_ms")
}

// RestoreResultKind discriminates RestoreResult variants.
type RestoreResultKind string

const (
	RestoreResultSuccess     RestoreResultKind = "success"
	RestoreResultNoPurchases RestoreResultKind = "no_purchases"
	RestoreResultFailed      RestoreResultKind = "failed"
)

// RestoreResult is the outcome of a restore request.
type RestoreResult struct {
	Kind          RestoreResultKind
	RestoredCount int
	Message       string
}

// RestoreFailed creates a failed restore result
func RestoreFailed(message string) *RestoreResult {
	return &RestoreResult{Kind: RestoreResultFailed, Message: message}
}

func (r *RestoreResult) EncodePayload() codec.Payload {
	p := codec.New().Set("kind", string(r.Kind)).SetOptional("message", r.Message)
	if r.Kind == RestoreResultSuccess {
		p.SetInt("restored_count", r.RestoredCount)
	}
	return p
}

// DecodePayload treats a missing or unrecognized kind as failed.
func (r *RestoreResult) DecodePayload(p codec.Payload) {
	switch k := RestoreResultKind(p.Get("kind")); k {
	case RestoreResultSuccess, RestoreResultNoPurchases:
		r.Kind = k
	default:
		r.Kind = RestoreResultFailed
	}
	r.RestoredCount = p.Int("restored_count")
	r.Message = p.Get("message")
}
