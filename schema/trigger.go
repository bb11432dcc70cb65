package schema

import (
	"time"

	"github.com/viant/capbridge/codec"
)

// TriggerUpdateKind discriminates TriggerUpdate variants.
type TriggerUpdateKind string

const (
	TriggerUpdateDecision    TriggerUpdateKind = "decision"
	TriggerUpdateEntitlement TriggerUpdateKind = "entitlement"
	TriggerUpdateJourney     TriggerUpdateKind = "journey"
	TriggerUpdateError       TriggerUpdateKind = "error"
	TriggerUpdateUnknown     TriggerUpdateKind = "unknown"
)

// DecisionKind is the outcome of evaluating a trigger against campaigns.
type DecisionKind string

const (
	DecisionNoMatch          DecisionKind = "no_match"
	DecisionSuppressed       DecisionKind = "suppressed"
	DecisionJourneyStarted   DecisionKind = "journey_started"
	DecisionJourneyResumed   DecisionKind = "journey_resumed"
	DecisionFlowShown        DecisionKind = "flow_shown"
	DecisionAllowedImmediate DecisionKind = "allowed_immediate"
	DecisionDeniedImmediate  DecisionKind = "denied_immediate"
	DecisionUnknown          DecisionKind = "unknown"
)

// SuppressReason explains a suppressed decision.
type SuppressReason string

const (
	SuppressAlreadyActive  SuppressReason = "already_active"
	SuppressReentryLimited SuppressReason = "reentry_limited"
	SuppressHoldout        SuppressReason = "holdout"
	SuppressNoFlow         SuppressReason = "no_flow"
	SuppressUnknown        SuppressReason = "unknown"
)

// EntitlementKind is the gate state reported while a trigger is in flight.
type EntitlementKind string

const (
	EntitlementPending EntitlementKind = "pending"
	EntitlementAllowed EntitlementKind = "allowed"
	EntitlementDenied  EntitlementKind = "denied"
	EntitlementUnknown EntitlementKind = "unknown"
)

// GateSource tells where an allowed entitlement came from.
type GateSource string

const (
	GateSourceCache    GateSource = "cache"
	GateSourcePurchase GateSource = "purchase"
	GateSourceRestore  GateSource = "restore"
)

// JourneyRef identifies a journey, its campaign and the flow it showed.
type JourneyRef struct {
	JourneyID  string
	CampaignID string
	FlowID     string
}

func (r *JourneyRef) EncodePayload() codec.Payload {
	return codec.New().
		Set("journey_id", r.JourneyID).
		Set("campaign_id", r.CampaignID).
		SetOptional("flow_id", r.FlowID)
}

func (r *JourneyRef) DecodePayload(p codec.Payload) {
	r.JourneyID = p.Get("journey_id")
	r.CampaignID = p.Get("campaign_id")
	r.FlowID = p.Get("flow_id")
}

// Decision is the decision arm of a trigger update.
type Decision struct {
	Kind              DecisionKind
	SuppressReason    SuppressReason
	RawSuppressReason string
	Ref               *JourneyRef
}

// Entitlement is the entitlement arm of a trigger update.
type Entitlement struct {
	Kind   EntitlementKind
	Source GateSource
}

// JourneyUpdate reports how a journey ended.
type JourneyUpdate struct {
	JourneyID      string
	CampaignID     string
	FlowID         string
	ExitReason     string
	GoalMet        bool
	GoalMetAtMs    int64
	Duration       *float64
	FlowExitReason string
}

func (j *JourneyUpdate) EncodePayload() codec.Payload {
	p := codec.New().
		Set("journey_id", j.JourneyID).
		Set("campaign_id", j.CampaignID).
		SetOptional("flow_id", j.FlowID).
		Set("exit_reason", j.ExitReason).
		SetBool("goal_met", j.GoalMet).
		SetBool("has_duration", j.Duration != nil).
		SetOptional("flow_exit_reason", j.FlowExitReason)
	if j.GoalMetAtMs != 0 {
		p.SetInt64("goal_met_at", j.GoalMetAtMs)
	}
	if j.Duration != nil {
		p.SetFloat("duration_seconds", *j.Duration)
	}
	return p
}

func (j *JourneyUpdate) DecodePayload(p codec.Payload) {
	j.JourneyID = p.Get("journey_id")
	j.CampaignID = p.Get("campaign_id")
	j.FlowID = p.Get("flow_id")
	j.ExitReason = p.Get("exit_reason")
	j.GoalMet = p.Bool("goal_met")
	j.GoalMetAtMs = p.Int64("goal_met_at")
	if present(p, "has_duration", "duration_seconds") {
		d := p.Float("duration_seconds")
		j.Duration = &d
	}
	j.FlowExitReason = p.Get("flow_exit_reason")
}

// TriggerUpdate is one value of a trigger stream. Exactly one arm matching Kind is set;
// an unknown kind carries no arm.
type TriggerUpdate struct {
	Kind        TriggerUpdateKind
	Decision    *Decision
	Entitlement *Entitlement
	Journey     *JourneyUpdate
	Error       *Error
	TimestampMs int64
}

// NewDecisionUpdate creates a decision update stamped with the current time
func NewDecisionUpdate(kind DecisionKind, ref *JourneyRef) *TriggerUpdate {
	return &TriggerUpdate{Kind: TriggerUpdateDecision, Decision: &Decision{Kind: kind, Ref: ref}, TimestampMs: nowMs()}
}

// NewSuppressedUpdate creates a suppressed decision update
func NewSuppressedUpdate(reason SuppressReason, raw string) *TriggerUpdate {
	return &TriggerUpdate{Kind: TriggerUpdateDecision, Decision: &Decision{Kind: DecisionSuppressed, SuppressReason: reason, RawSuppressReason: raw}, TimestampMs: nowMs()}
}

// NewEntitlementUpdate creates an entitlement update
func NewEntitlementUpdate(kind EntitlementKind, source GateSource) *TriggerUpdate {
	return &TriggerUpdate{Kind: TriggerUpdateEntitlement, Entitlement: &Entitlement{Kind: kind, Source: source}, TimestampMs: nowMs()}
}

// NewJourneyUpdate creates a journey update
func NewJourneyUpdate(journey *JourneyUpdate) *TriggerUpdate {
	return &TriggerUpdate{Kind: TriggerUpdateJourney, Journey: journey, TimestampMs: nowMs()}
}

// NewErrorUpdate creates an error update
func NewErrorUpdate(code, message string) *TriggerUpdate {
	return &TriggerUpdate{Kind: TriggerUpdateError, Error: NewError(code, message), TimestampMs: nowMs()}
}

// IsTerminal reports whether no further updates are expected after u.
func (u *TriggerUpdate) IsTerminal() bool {
	return IsTerminal(u)
}

// IsTerminal derives terminality from the update tag alone.
func IsTerminal(u *TriggerUpdate) bool {
	if u == nil {
		return false
	}
	switch u.Kind {
	case TriggerUpdateError, TriggerUpdateJourney:
		return true
	case TriggerUpdateDecision:
		if u.Decision == nil {
			return false
		}
		switch u.Decision.Kind {
		case DecisionNoMatch, DecisionSuppressed, DecisionAllowedImmediate, DecisionDeniedImmediate:
			return true
		}
	case TriggerUpdateEntitlement:
		if u.Entitlement == nil {
			return false
		}
		switch u.Entitlement.Kind {
		case EntitlementAllowed, EntitlementDenied:
			return true
		}
	}
	return false
}

func (u *TriggerUpdate) EncodePayload() codec.Payload {
	p := codec.New().Set("kind", string(u.Kind)).SetInt64("timestamp_ms", u.TimestampMs)
	switch u.Kind {
	case TriggerUpdateDecision:
		if d := u.Decision; d != nil {
			p.Set("decision_kind", string(d.Kind)).
				SetOptional("suppress_reason", string(d.SuppressReason)).
				SetOptional("raw_suppress_reason", d.RawSuppressReason)
			if d.Ref != nil {
				p.SetNested("journey_ref", d.Ref)
			}
		}
	case TriggerUpdateEntitlement:
		if e := u.Entitlement; e != nil {
			p.Set("entitlement_kind", string(e.Kind)).SetOptional("gate_source", string(e.Source))
		}
	case TriggerUpdateJourney:
		if u.Journey != nil {
			p.SetNested("journey", u.Journey)
		}
	case TriggerUpdateError:
		if u.Error != nil {
			p.Set("error_code", u.Error.Code).Set("error_message", u.Error.Message)
		}
	}
	return p.SetBool("is_terminal", u.IsTerminal())
}

func (u *TriggerUpdate) DecodePayload(p codec.Payload) {
	u.TimestampMs = p.Int64("timestamp_ms")
	u.Decision, u.Entitlement, u.Journey, u.Error = nil, nil, nil, nil
	switch TriggerUpdateKind(p.Get("kind")) {
	case TriggerUpdateDecision:
		u.Kind = TriggerUpdateDecision
		u.Decision = &Decision{
			Kind:              parseDecisionKind(p.Get("decision_kind")),
			SuppressReason:    SuppressReason(p.Get("suppress_reason")),
			RawSuppressReason: p.Get("raw_suppress_reason"),
		}
		if p.Has("journey_ref") {
			u.Decision.Ref = &JourneyRef{}
			u.Decision.Ref.DecodePayload(p.Nested("journey_ref"))
		}
	case TriggerUpdateEntitlement:
		u.Kind = TriggerUpdateEntitlement
		u.Entitlement = &Entitlement{
			Kind:   parseEntitlementKind(p.Get("entitlement_kind")),
			Source: GateSource(p.Get("gate_source")),
		}
	case TriggerUpdateJourney:
		u.Kind = TriggerUpdateJourney
		u.Journey = &JourneyUpdate{}
		u.Journey.DecodePayload(p.Nested("journey"))
	case TriggerUpdateError:
		u.Kind = TriggerUpdateError
		u.Error = NewError(p.Get("error_code"), p.Get("error_message"))
	default:
		u.Kind = TriggerUpdateUnknown
	}
}

func parseDecisionKind(v string) DecisionKind {
	switch k := DecisionKind(v); k {
	case DecisionNoMatch, DecisionSuppressed, DecisionJourneyStarted, DecisionJourneyResumed,
		DecisionFlowShown, DecisionAllowedImmediate, DecisionDeniedImmediate:
		return k
	}
	return DecisionUnknown
}

func parseEntitlementKind(v string) EntitlementKind {
	switch k := EntitlementKind(v); k {
	case EntitlementPending, EntitlementAllowed, EntitlementDenied:
		return k
	}
	return EntitlementUnknown
}

// present reports an optional value, preferring an explicit presence flag over the value key.
func present(p codec.Payload, flag, key string) bool {
	if p.Has(flag) {
		return p.Bool(flag)
	}
	return p.Has(key)
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}
