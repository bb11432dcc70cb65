package bridge

import (
	"context"
	"time"

	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
)

// HasFeature returns the encoded FeatureAccess of featureID.
func (b *Bridge) HasFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string) (string, error) {
	p, err := b.session()
	if err != nil {
		return "", err
	}
	access, err := p.HasFeature(ctx, featureID, requiredBalance, entityID)
	if err != nil {
		return "", err
	}
	return codec.Marshal(access), nil
}

// CheckFeature returns the encoded FeatureCheck of featureID.
func (b *Bridge) CheckFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string, forceRefresh bool) (string, error) {
	p, err := b.session()
	if err != nil {
		return "", err
	}
	check, err := p.CheckFeature(ctx, featureID, requiredBalance, entityID, forceRefresh)
	if err != nil {
		return "", err
	}
	return codec.Marshal(check), nil
}

func (b *Bridge) UseFeature(ctx context.Context, featureID string, amount float64, entityID, metadata string) error {
	p, err := b.session()
	if err != nil {
		return err
	}
	return p.UseFeature(ctx, featureID, amount, entityID, schema.Properties(metadata))
}

// UseFeatureAndWait records usage and returns the encoded FeatureUsage.
func (b *Bridge) UseFeatureAndWait(ctx context.Context, featureID string, amount float64, entityID string, setUsage bool, metadata string) (string, error) {
	p, err := b.session()
	if err != nil {
		return "", err
	}
	usage, err := p.UseFeatureAndWait(ctx, featureID, amount, entityID, setUsage, schema.Properties(metadata))
	if err != nil {
		return "", err
	}
	return codec.Marshal(usage), nil
}

// OnFeatureAccessChanged emits a change of a cached access snapshot. A missing side
// is emitted as an empty payload.
func (b *Bridge) OnFeatureAccessChanged(ctx context.Context, change *schema.FeatureAccessChange) {
	if change == nil {
		return
	}
	var from, to string
	if change.From != nil {
		from = codec.Marshal(change.From)
	}
	if change.To != nil {
		to = codec.Marshal(change.To)
	}
	ts := time.Now().UnixMilli()
	b.emit(ctx, schema.EventFeatureAccessChanged, func(ctx context.Context, s sink.Sink) error {
		return s.FeatureAccessChanged(ctx, change.FeatureID, from, to, ts)
	})
}
