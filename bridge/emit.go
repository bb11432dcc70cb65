package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/capbridge/sink"
)

// emit delivers one event. It must be called without holding b.mux: a sink handler may
// re-enter the bridge. Delivery failures are logged and never reach the provider.
func (b *Bridge) emit(ctx context.Context, event string, deliver func(ctx context.Context, s sink.Sink) error) {
	b.mux.Lock()
	s := b.sink
	b.mux.Unlock()
	if s == nil {
		slog.Debug(fmt.Sprintf("%s - no sink, %s dropped", logPrefix, event))
		return
	}
	if err := deliver(ctx, s); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to emit %s: %v", logPrefix, event, err))
	}
}
