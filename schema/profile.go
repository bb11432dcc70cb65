package schema

import "github.com/viant/capbridge/codec"

// Profile is the refreshed customer profile; Raw keeps the provider's own serialization.
type Profile struct {
	CustomerID string
	Raw        string
}

func (p *Profile) EncodePayload() codec.Payload {
	return codec.New().Set("customer_id", p.CustomerID).SetOptional("raw", p.Raw)
}

func (p *Profile) DecodePayload(payload codec.Payload) {
	p.CustomerID = payload.Get("customer_id")
	p.Raw = payload.Get("raw")
}

// Identity is a snapshot of the current user identity.
type Identity struct {
	DistinctID   string `json:"distinctId"`
	AnonymousID  string `json:"anonymousId"`
	IsIdentified bool   `json:"isIdentified"`
}
