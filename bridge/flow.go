package bridge

import (
	"context"
	"time"

	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
)

func (b *Bridge) ShowFlow(ctx context.Context, flowID string) error {
	p, err := b.session()
	if err != nil {
		return err
	}
	return p.ShowFlow(ctx, flowID)
}

// RefreshProfile returns the encoded Profile.
func (b *Bridge) RefreshProfile(ctx context.Context) (string, error) {
	p, err := b.session()
	if err != nil {
		return "", err
	}
	profile, err := p.RefreshProfile(ctx)
	if err != nil {
		return "", err
	}
	return codec.Marshal(profile), nil
}

func (b *Bridge) FlushEvents(ctx context.Context) (bool, error) {
	p, err := b.session()
	if err != nil {
		return false, err
	}
	return p.FlushEvents(ctx)
}

func (b *Bridge) QueuedEventCount(ctx context.Context) (int, error) {
	p, err := b.session()
	if err != nil {
		return 0, err
	}
	return p.QueuedEventCount(ctx)
}

func (b *Bridge) PauseEventQueue(ctx context.Context) error {
	p, err := b.session()
	if err != nil {
		return err
	}
	return p.PauseEventQueue(ctx)
}

func (b *Bridge) ResumeEventQueue(ctx context.Context) error {
	p, err := b.session()
	if err != nil {
		return err
	}
	return p.ResumeEventQueue(ctx)
}

func (b *Bridge) OnFlowPresented(ctx context.Context, flowID string) {
	ts := time.Now().UnixMilli()
	b.emit(ctx, schema.EventFlowPresented, func(ctx context.Context, s sink.Sink) error {
		return s.FlowPresented(ctx, flowID, ts)
	})
}

func (b *Bridge) OnFlowDismissed(ctx context.Context, dismissed *schema.FlowDismissed) {
	if dismissed == nil {
		return
	}
	payload := codec.Marshal(dismissed)
	ts := time.Now().UnixMilli()
	b.emit(ctx, schema.EventFlowDismissed, func(ctx context.Context, s sink.Sink) error {
		return s.FlowDismissed(ctx, payload, ts)
	})
}
