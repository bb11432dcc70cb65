package schema

import (
	"github.com/google/uuid"
	"github.com/viant/capbridge/codec"
)

// Canonical failure messages synthesized by the bridge.
const (
	PurchaseTimeout   = "purchase_timeout"
	PurchaseCancelled = "purchase_cancelled"
	RestoreTimeout    = "restore_timeout"
	RestoreCancelled  = "restore_cancelled"
)

// PurchaseRequest asks the host to run a store purchase.
type PurchaseRequest struct {
	RequestID    string
	Platform     string
	ProductID    string
	BasePlanID   string
	OfferID      string
	DisplayName  string
	DisplayPrice string
	Price        *float64
	CurrencyCode string
	TimestampMs  int64
}

// NewPurchaseRequest creates a request with a generated id
func NewPurchaseRequest(productID string) *PurchaseRequest {
	return &PurchaseRequest{
		RequestID:   uuid.NewString(),
		Platform:    Platform,
		ProductID:   productID,
		TimestampMs: nowMs(),
	}
}

func (r *PurchaseRequest) EncodePayload() codec.Payload {
	p := codec.New().
		Set("request_id", r.RequestID).
		Set("platform", r.Platform).
		Set("product_id", r.ProductID).
		SetOptional("base_plan_id", r.BasePlanID).
		SetOptional("offer_id", r.OfferID).
		SetOptional("display_name", r.DisplayName).
		SetOptional("display_price", r.DisplayPrice).
		SetBool("has_price", r.Price != nil).
		SetOptional("currency_code", r.CurrencyCode).
		SetInt64("timestamp_ms", r.TimestampMs)
	if r.Price != nil {
		p.SetFloat("price", *r.Price)
	}
	return p
}

func (r *PurchaseRequest) DecodePayload(p codec.Payload) {
	r.RequestID = p.Get("request_id")
	r.Platform = p.Get("platform")
	r.ProductID = p.Get("product_id")
	r.BasePlanID = p.Get("base_plan_id")
	r.OfferID = p.Get("offer_id")
	r.DisplayName = p.Get("display_name")
	r.DisplayPrice = p.Get("display_price")
	r.Price = optionalFloat(p, "has_price", "price")
	r.CurrencyCode = p.Get("currency_code")
	r.TimestampMs = p.Int64("timestamp_ms")
}

// PurchaseResultKind discriminates PurchaseResult variants.
type PurchaseResultKind string

const (
	PurchaseResultSuccess   PurchaseResultKind = "success"
	PurchaseResultCancelled PurchaseResultKind = "cancelled"
	PurchaseResultPending   PurchaseResultKind = "pending"
	PurchaseResultFailed    PurchaseResultKind = "failed"
)

// PurchaseResult is the outcome of a purchase request.
type PurchaseResult struct {
	Kind                  PurchaseResultKind
	ProductID             string
	PurchaseToken         string
	OrderID               string
	TransactionID         string
	OriginalTransactionID string
	TransactionJWS        string
	Message               string
}

// PurchaseFailed creates a failed purchase result
func PurchaseFailed(message string) *PurchaseResult {
	return &PurchaseResult{Kind: PurchaseResultFailed, Message: message}
}

func (r *PurchaseResult) EncodePayload() codec.Payload {
	return codec.New().
		Set("kind", string(r.Kind)).
		SetOptional("product_id", r.ProductID).
		SetOptional("purchase_token", r.PurchaseToken).
		SetOptional("order_id", r.OrderID).
		SetOptional("transaction_id", r.TransactionID).
		SetOptional("original_transaction_id", r.OriginalTransactionID).
		SetOptional("transaction_jws", r.TransactionJWS).
		SetOptional("message", r.Message)
}

// DecodePayload treats a missing or unrecognized kind as failed.
func (r *PurchaseResult) DecodePayload(p codec.Payload) {
	switch k := PurchaseResultKind(p.Get("kind")); k {
	case PurchaseResultSuccess, PurchaseResultCancelled, PurchaseResultPending:
		r.Kind = k
	default:
		r.Kind = PurchaseResultFailed
	}
	r.ProductID = p.Get("product_id")
	r.PurchaseToken = p.Get("purchase_token")
	r.OrderID = p.Get("order_id")
	r.TransactionID = p.Get("transaction_id")
	r.OriginalTransactionID = p.Get("original_transaction_id")
	r.TransactionJWS = p.Get("transaction_jws")
	r.Message = p.Get("message")
}
