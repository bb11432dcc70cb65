package host

import (
	"context"
	"errors"

	"github.com/viant/capbridge"
	"github.com/viant/capbridge/bridge"
	"github.com/viant/capbridge/sink"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcp-protocol/syncmap"
)

const logPrefix = "host:service"

// Service serves one bridge to JSON-RPC transports.
type Service struct {
	bridge         *bridge.Bridge
	activeContexts *syncmap.Map[int, *activeContext]
	notifications  bool
	stdioOptions   []stdio.Option
	runtime        *capbridge.Runtime
}

// Close releases the runtime the service was built from, if any.
func (s *Service) Close() {
	if s.runtime != nil {
		s.runtime.Close()
	}
}

// CancelOperation cancels the in-flight request id.
func (s *Service) CancelOperation(id int) {
	s.cancelOperation(id)
}

func (s *Service) cancelOperation(id int) {
	if active, ok := s.activeContexts.Get(id); ok {
		active.CancelFunc()
		s.activeContexts.Delete(id)
	}
}

// NewHandler creates a handler for transport; it matches stdio.New's handler factory.
func (s *Service) NewHandler(ctx context.Context, transport transport.Transport) transport.Handler {
	return s.newHandler(ctx, transport)
}

func (s *Service) newHandler(_ context.Context, transport transport.Transport) *Handler {
	ret := &Handler{Service: s, Notifier: transport}
	if s.notifications {
		s.bridge.SetSink(sink.NewNotifier(transport))
	}
	return ret
}

// Stdio returns a stdio JSON-RPC server bound to the service.
func (s *Service) Stdio(ctx context.Context) *stdio.Server {
	return stdio.New(ctx, s.NewHandler, s.stdioOptions...)
}

// New creates a service for b.
func New(b *bridge.Bridge, options ...Option) (*Service, error) {
	if b == nil {
		return nil, errors.New("no bridge specified")
	}
	s := &Service{
		bridge:         b,
		activeContexts: syncmap.NewMap[int, *activeContext](),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
