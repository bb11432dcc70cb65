package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/viant/afs"
	"github.com/viant/capbridge"
	"github.com/viant/capbridge/config"
	"github.com/viant/capbridge/provider"
	"github.com/viant/capbridge/provider/mock"
	"github.com/viant/capbridge/provider/noop"
	"github.com/viant/capbridge/schema"
)

// Run parses args, wires the bridge from the environment and serves JSON-RPC on stdio.
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// stdout carries the JSON-RPC stream
	config.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx := context.Background()
	srv, err := NewService(ctx, options, cfg)
	if err != nil {
		return err
	}
	defer srv.Close()
	return srv.Stdio(ctx).ListenAndServe()
}

// NewService builds the runtime described by options and cfg and wraps it in a Service.
func NewService(ctx context.Context, options *Options, cfg *config.Config) (*Service, error) {
	rt, err := capbridge.New(&capbridge.Options{Config: cfg, Provider: newProvider(options.Provider, cfg)})
	if err != nil {
		return nil, err
	}
	if options.APIKey != "" {
		payload, err := loadPayload(ctx, options.OptionsURL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		if err := rt.Configure(ctx, options.APIKey, payload, options.PurchaseFlow); err != nil {
			rt.Close()
			return nil, fmt.Errorf("%s - failed to configure: %w", logPrefix, err)
		}
	}
	var serviceOptions []Option
	if cfg.Sink == config.SinkRPC {
		serviceOptions = append(serviceOptions, WithNotifications())
	}
	ret, err := New(rt.Bridge, serviceOptions...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	ret.runtime = rt
	return ret, nil
}

func newProvider(name string, cfg *config.Config) provider.Provider {
	switch name {
	case "noop":
		return noop.New()
	default:
		slog.Info(fmt.Sprintf("%s - using mock provider", logPrefix))
		return mock.New(
			mock.WithAsync(),
			mock.WithWaitTimeout(cfg.ProviderWaitTimeout),
			mock.WithScript("paywall",
				mock.Step{Update: schema.NewDecisionUpdate(schema.DecisionFlowShown, nil)},
				mock.Step{Purchase: "premium"},
			),
			mock.WithScript("restore", mock.Step{Restore: true}),
		)
	}
}

// loadPayload reads a flat options payload; an empty URL yields an empty payload.
func loadPayload(ctx context.Context, URL string) (string, error) {
	if URL == "" {
		return "", nil
	}
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("%s - failed to load options %s: %w", logPrefix, URL, err)
	}
	return strings.TrimSpace(string(data)), nil
}
