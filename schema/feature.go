package schema

import "github.com/viant/capbridge/codec"

// FeatureType classifies how a feature is metered.
type FeatureType string

const (
	FeatureTypeBoolean      FeatureType = "boolean"
	FeatureTypeMetered      FeatureType = "metered"
	FeatureTypeCreditSystem FeatureType = "creditSystem"
)

// ParseFeatureType maps wire text to a FeatureType; unrecognized text means boolean.
func ParseFeatureType(v string) FeatureType {
	switch v {
	case "metered":
		return FeatureTypeMetered
	case "creditSystem", "credit_system":
		return FeatureTypeCreditSystem
	}
	return FeatureTypeBoolean
}

// FeatureAccess is a snapshot of whether a feature may be used.
type FeatureAccess struct {
	Allowed   bool
	Unlimited bool
	Balance   *int
	Type      FeatureType
}

func (a *FeatureAccess) EncodePayload() codec.Payload {
	p := codec.New().
		SetBool("allowed", a.Allowed).
		SetBool("unlimited", a.Unlimited).
		SetBool("has_balance", a.Balance != nil).
		Set("type", string(ParseFeatureType(string(a.Type))))
	if a.Balance != nil {
		p.SetInt("balance", *a.Balance)
	}
	return p
}

func (a *FeatureAccess) DecodePayload(p codec.Payload) {
	a.Allowed = p.Bool("allowed")
	a.Unlimited = p.Bool("unlimited")
	a.Balance = nil
	if present(p, "has_balance", "balance") {
		balance := p.Int("balance")
		a.Balance = &balance
	}
	a.Type = ParseFeatureType(p.Get("type"))
}

// FeatureCheck is the server side answer to a feature check.
type FeatureCheck struct {
	CustomerID      string
	FeatureID       string
	RequiredBalance int
	Code            string
	Preview         string
	Access          FeatureAccess
}

func (c *FeatureCheck) EncodePayload() codec.Payload {
	return codec.New().
		Set("customer_id", c.CustomerID).
		Set("feature_id", c.FeatureID).
		SetInt("required_balance", c.RequiredBalance).
		SetOptional("code", c.Code).
		SetOptional("preview", c.Preview).
		SetNested("access", &c.Access)
}

func (c *FeatureCheck) DecodePayload(p codec.Payload) {
	c.CustomerID = p.Get("customer_id")
	c.FeatureID = p.Get("feature_id")
	c.RequiredBalance = p.Int("required_balance")
	c.Code = p.Get("code")
	c.Preview = p.Get("preview")
	c.Access = FeatureAccess{}
	c.Access.DecodePayload(p.Nested("access"))
}

// FeatureUsage reports the outcome of recording usage.
type FeatureUsage struct {
	Success        bool
	FeatureID      string
	AmountUsed     float64
	Message        string
	UsageCurrent   *float64
	UsageLimit     *float64
	UsageRemaining *float64
}

func (u *FeatureUsage) EncodePayload() codec.Payload {
	p := codec.New().
		SetBool("success", u.Success).
		Set("feature_id", u.FeatureID).
		SetFloat("amount_used", u.AmountUsed).
		SetOptional("message", u.Message).
		SetBool("has_usage", u.UsageCurrent != nil).
		SetBool("has_usage_limit", u.UsageLimit != nil).
		SetBool("has_usage_remaining", u.UsageRemaining != nil)
	if u.UsageCurrent != nil {
		p.SetFloat("usage_current", *u.UsageCurrent)
	}
	if u.UsageLimit != nil {
		p.SetFloat("usage_limit", *u.UsageLimit)
	}
	if u.UsageRemaining != nil {
		p.SetFloat("usage_remaining", *u.UsageRemaining)
	}
	return p
}

func (u *FeatureUsage) DecodePayload(p codec.Payload) {
	u.Success = p.Bool("success")
	u.FeatureID = p.Get("feature_id")
	u.AmountUsed = p.Float("amount_used")
	u.Message = p.Get("message")
	u.UsageCurrent = optionalFloat(p, "has_usage", "usage_current")
	u.UsageLimit = optionalFloat(p, "has_usage_limit", "usage_limit")
	u.UsageRemaining = optionalFloat(p, "has_usage_remaining", "usage_remaining")
}

func optionalFloat(p codec.Payload, flag, key string) *float64 {
	if !present(p, flag, key) {
		return nil
	}
	v := p.Float(key)
	return &v
}

// FeatureAccessChange is emitted when a cached access snapshot changes.
type FeatureAccessChange struct {
	FeatureID string
	From      *FeatureAccess
	To        *FeatureAccess
}
