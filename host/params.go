package host

import (
	"encoding/json"

	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/internal/conv"
)

// Payload is a flat payload parameter. Hosts may send it encoded as a string or as a
// JSON object of scalars.
type Payload string

func (p *Payload) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*p = Payload(text)
		return nil
	}
	var object map[string]interface{}
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	flat := codec.New()
	for k, v := range object {
		flat.Set(k, conv.AsString(v))
	}
	*p = Payload(flat.Encode())
	return nil
}

type ConfigureParams struct {
	APIKey          string  `json:"apiKey"`
	Options         Payload `json:"options,omitempty"`
	UsePurchaseFlow bool    `json:"usePurchaseFlow,omitempty"`
}

type IdentifyParams struct {
	DistinctID string  `json:"distinctId"`
	Properties Payload `json:"properties,omitempty"`
	SetOnce    Payload `json:"setOnce,omitempty"`
}

type ResetParams struct {
	KeepAnonymousID bool `json:"keepAnonymousId,omitempty"`
}

type StartTriggerParams struct {
	RequestID string  `json:"requestId"`
	EventName string  `json:"eventName"`
	Options   Payload `json:"options,omitempty"`
}

type CancelTriggerParams struct {
	RequestID string `json:"requestId"`
}

type ShowFlowParams struct {
	FlowID string `json:"flowId"`
}

type FeatureParams struct {
	FeatureID       string  `json:"featureId"`
	RequiredBalance *int    `json:"requiredBalance,omitempty"`
	EntityID        string  `json:"entityId,omitempty"`
	ForceRefresh    bool    `json:"forceRefresh,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	SetUsage        bool    `json:"setUsage,omitempty"`
	Metadata        Payload `json:"metadata,omitempty"`
}

type CompleteParams struct {
	RequestID string  `json:"requestId"`
	Result    Payload `json:"result"`
}

// PayloadResult carries an encoded flat payload.
type PayloadResult struct {
	Payload string `json:"payload"`
}

type CompleteResult struct {
	Resolved bool `json:"resolved"`
}

type FlushResult struct {
	Flushed bool `json:"flushed"`
}

type CountResult struct {
	Count int `json:"count"`
}

// Empty is the result of operations returning nothing.
type Empty struct{}
