package capbridge

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"
	"github.com/viant/capbridge/bridge"
	"github.com/viant/capbridge/config"
	"github.com/viant/capbridge/metrics"
	"github.com/viant/capbridge/provider"
	"github.com/viant/capbridge/sink"
	natssink "github.com/viant/capbridge/sink/nats"
)

const logPrefix = "capbridge:capbridge"

// Options defines what New assembles.
type Options struct {
	Config   *config.Config
	Provider provider.Provider
	// Sink, when set, replaces the sink selected by Config.Sink.
	Sink    sink.Sink
	Metrics *metrics.Metrics
}

// Runtime is a configured facade and the resources it owns.
type Runtime struct {
	*bridge.Bridge
	Config  *config.Config
	Metrics *metrics.Metrics
	conn    *comms.Conn
}

// Close releases the NATS connection, if any.
func (r *Runtime) Close() {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

// New creates a runtime. With the rpc sink the facade starts without a sink; the host
// adapter installs one per transport.
func New(options *Options) (*Runtime, error) {
	if options == nil || options.Provider == nil {
		return nil, errors.New("no provider specified")
	}
	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ret := &Runtime{Config: cfg, Metrics: options.Metrics}
	if ret.Metrics == nil {
		ret.Metrics = metrics.New()
	}

	eventSink := options.Sink
	if eventSink == nil && cfg.Sink == config.SinkNATS {
		nc, err := comms.Connect(cfg.NATSURL, comms.Name("capbridge"), comms.Timeout(5*time.Second))
		if err != nil {
			return nil, fmt.Errorf("%s - failed to connect to %s: %w", logPrefix, cfg.NATSURL, err)
		}
		ret.conn = nc
		eventSink = natssink.New(nc, cfg.NATSSubjectPrefix)
		slog.Info(fmt.Sprintf("%s - publishing events to %s.*", logPrefix, cfg.NATSSubjectPrefix))
	}

	ret.Bridge = bridge.New(
		bridge.WithProvider(options.Provider),
		bridge.WithSink(eventSink),
		bridge.WithTimeouts(cfg.PurchaseTimeout, cfg.RestoreTimeout),
		bridge.WithWrapperVersion(cfg.WrapperVersion),
		bridge.WithMetrics(ret.Metrics),
	)
	return ret, nil
}
