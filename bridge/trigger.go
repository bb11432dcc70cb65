package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/capbridge/codec"
	"github.com/viant/capbridge/correlator"
	"github.com/viant/capbridge/schema"
	"github.com/viant/capbridge/sink"
)

// maxCancelledTriggers bounds how many cancelled ids are remembered for dropping late updates.
const maxCancelledTriggers = 1024

type triggerKey struct{}

// withTrigger marks ctx as running on behalf of the trigger stream requestID.
func withTrigger(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, triggerKey{}, requestID)
}

func triggerID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(triggerKey{}).(string)
	return id
}

// StartTrigger opens a stream for requestID and asks the provider to evaluate eventName.
// A provider failure closes the stream with a terminal error update; it is not returned.
func (b *Bridge) StartTrigger(ctx context.Context, requestID, eventName, options string) error {
	if err := b.OpenTrigger(requestID, eventName); err != nil {
		return err
	}
	return b.RunTrigger(ctx, requestID, eventName, options)
}

// OpenTrigger registers the stream for requestID without calling the provider. A
// CancelTrigger issued after OpenTrigger returns always applies to this stream.
func (b *Bridge) OpenTrigger(requestID, eventName string) error {
	if requestID == "" {
		return ErrEmptyRequestID
	}
	b.mux.Lock()
	if b.state != configured {
		b.mux.Unlock()
		return ErrNotConfigured
	}
	b.streams[requestID] = &stream{eventName: eventName, owned: map[string]correlator.Kind{}}
	b.uncancel(requestID)
	active := len(b.streams)
	b.mux.Unlock()
	b.metrics.SetActiveTriggers(active)
	return nil
}

// RunTrigger asks the provider to evaluate eventName for a stream opened by OpenTrigger.
// A stream cancelled or closed in the meantime is not forwarded.
func (b *Bridge) RunTrigger(ctx context.Context, requestID, eventName, options string) error {
	b.mux.Lock()
	if b.state != configured {
		b.mux.Unlock()
		return ErrNotConfigured
	}
	p := b.provider
	_, open := b.streams[requestID]
	b.mux.Unlock()
	if !open {
		slog.Debug(fmt.Sprintf("%s - trigger %q closed before it ran", logPrefix, requestID))
		return nil
	}

	triggerOptions := &schema.TriggerOptions{}
	codec.Unmarshal(options, triggerOptions)
	err := p.StartTrigger(withTrigger(ctx, requestID), requestID, eventName, triggerOptions)
	if err == nil {
		return nil
	}
	slog.Warn(fmt.Sprintf("%s - trigger %q for %q failed: %v", logPrefix, requestID, eventName, err))
	b.mux.Lock()
	_, open = b.streams[requestID]
	b.mux.Unlock()
	if open {
		failure := schema.AsError(err)
		b.OnTriggerUpdate(ctx, requestID, schema.NewErrorUpdate(schema.CodeTriggerFailed, failure.Error()))
	}
	return nil
}

// CancelTrigger closes the stream for requestID. Updates arriving later for it are dropped
// and purchase or restore operations raised on its behalf resolve as cancelled.
func (b *Bridge) CancelTrigger(ctx context.Context, requestID string) error {
	b.mux.Lock()
	if b.state != configured {
		b.mux.Unlock()
		return ErrNotConfigured
	}
	p := b.provider
	s, active := b.streams[requestID]
	if active {
		delete(b.streams, requestID)
		b.markCancelled(requestID)
	}
	count := len(b.streams)
	b.mux.Unlock()

	if active {
		b.metrics.SetActiveTriggers(count)
		for id, kind := range s.owned {
			switch kind {
			case correlator.Purchase:
				b.purchases.Cancel(id)
			case correlator.Restore:
				b.restores.Cancel(id)
			}
		}
	}
	return p.CancelTrigger(ctx, requestID)
}

// OnTriggerUpdate receives one streamed update from the provider.
func (b *Bridge) OnTriggerUpdate(ctx context.Context, requestID string, update *schema.TriggerUpdate) {
	if update == nil {
		return
	}
	terminal := schema.IsTerminal(update)
	b.mux.Lock()
	if _, cancelled := b.cancelled[requestID]; cancelled {
		if terminal {
			b.uncancel(requestID)
		}
		b.mux.Unlock()
		slog.Debug(fmt.Sprintf("%s - update %s for cancelled trigger %q dropped", logPrefix, update.Kind, requestID))
		return
	}
	_, active := b.streams[requestID]
	if terminal && active {
		delete(b.streams, requestID)
	}
	count := len(b.streams)
	b.mux.Unlock()

	if terminal && active {
		b.metrics.SetActiveTriggers(count)
	}
	b.metrics.TriggerUpdate(string(update.Kind), terminal)
	payload := codec.Marshal(update)
	b.emit(ctx, schema.EventTriggerUpdate, func(ctx context.Context, s sink.Sink) error {
		return s.TriggerUpdate(ctx, requestID, payload, terminal, update.TimestampMs)
	})
}

// own records that the pending operation id was raised by trigger requestID.
func (b *Bridge) own(requestID, id string, kind correlator.Kind) bool {
	if requestID == "" {
		return true
	}
	b.mux.Lock()
	defer b.mux.Unlock()
	s, ok := b.streams[requestID]
	if !ok {
		_, cancelled := b.cancelled[requestID]
		return !cancelled
	}
	s.owned[id] = kind
	return true
}

func (b *Bridge) disown(requestID, id string) {
	if requestID == "" {
		return
	}
	b.mux.Lock()
	defer b.mux.Unlock()
	if s, ok := b.streams[requestID]; ok {
		delete(s.owned, id)
	}
}

// markCancelled remembers requestID as cancelled, forgetting the oldest id past
// maxCancelledTriggers. Callers hold b.mux.
func (b *Bridge) markCancelled(requestID string) {
	if _, ok := b.cancelled[requestID]; !ok && len(b.cancelled) >= maxCancelledTriggers {
		oldest, oldestSeq := "", uint64(0)
		for id, seq := range b.cancelled {
			if oldest == "" || seq < oldestSeq {
				oldest, oldestSeq = id, seq
			}
		}
		delete(b.cancelled, oldest)
	}
	b.cancelSeq++
	b.cancelled[requestID] = b.cancelSeq
}

// uncancel forgets requestID. Callers hold b.mux.
func (b *Bridge) uncancel(requestID string) {
	delete(b.cancelled, requestID)
}
