package schema

import "github.com/viant/capbridge/codec"

// FlowDismissed describes why a presented flow went away.
type FlowDismissed struct {
	FlowID     string
	Reason     string
	JourneyID  string
	CampaignID string
	ScreenID   string
	Error      string
}

func (f *FlowDismissed) EncodePayload() codec.Payload {
	return codec.New().
		Set("flow_id", f.FlowID).
		Set("reason", f.Reason).
		SetOptional("journey_id", f.JourneyID).
		SetOptional("campaign_id", f.CampaignID).
		SetOptional("screen_id", f.ScreenID).
		SetOptional("error", f.Error)
}

func (f *FlowDismissed) DecodePayload(p codec.Payload) {
	f.FlowID = p.Get("flow_id")
	f.Reason = p.Get("reason")
	f.JourneyID = p.Get("journey_id")
	f.CampaignID = p.Get("campaign_id")
	f.ScreenID = p.Get("screen_id")
	f.Error = p.Get("error")
}
