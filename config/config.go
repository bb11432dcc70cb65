// Package config provides bridge configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:config"

// Sink kinds.
const (
	SinkRPC  = "rpc"
	SinkNATS = "nats"
	SinkNone = "none"
)

// Config holds capbridge configuration.
type Config struct {
	// Timeouts
	PurchaseTimeout time.Duration `envconfig:"CAPBRIDGE_PURCHASE_TIMEOUT" default:"60s"`
	RestoreTimeout  time.Duration `envconfig:"CAPBRIDGE_RESTORE_TIMEOUT" default:"60s"`
	// ProviderWaitTimeout bounds how long a provider blocks on a purchase or restore callback.
	// It must not be shorter than the await timeouts.
	ProviderWaitTimeout time.Duration `envconfig:"CAPBRIDGE_PROVIDER_WAIT_TIMEOUT" default:"65s"`

	// Logging
	LogLevel  string `envconfig:"CAPBRIDGE_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"CAPBRIDGE_LOG_FORMAT" default:"text"`

	// Event sink
	Sink              string `envconfig:"CAPBRIDGE_SINK" default:"rpc"`
	NATSURL           string `envconfig:"CAPBRIDGE_NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSSubjectPrefix string `envconfig:"CAPBRIDGE_NATS_SUBJECT_PREFIX" default:"capbridge.events"`

	WrapperVersion string `envconfig:"CAPBRIDGE_WRAPPER_VERSION" default:"0.1.0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	return &c, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	return &Config{
		PurchaseTimeout:     60 * time.Second,
		RestoreTimeout:      60 * time.Second,
		ProviderWaitTimeout: 65 * time.Second,
		LogLevel:            "info",
		LogFormat:           "text",
		Sink:                SinkRPC,
		NATSURL:             "nats://127.0.0.1:4222",
		NATSSubjectPrefix:   "capbridge.events",
		WrapperVersion:      "0.1.0",
	}
}

// Validate checks timeouts, the sink selection and the wrapper version.
func (c *Config) Validate() error {
	if c.PurchaseTimeout <= 0 {
		return fmt.Errorf("%s - CAPBRIDGE_PURCHASE_TIMEOUT must be positive", logPrefix)
	}
	if c.RestoreTimeout <= 0 {
		return fmt.Errorf("%s - CAPBRIDGE_RESTORE_TIMEOUT must be positive", logPrefix)
	}
	if c.ProviderWaitTimeout < c.PurchaseTimeout || c.ProviderWaitTimeout < c.RestoreTimeout {
		return fmt.Errorf("%s - CAPBRIDGE_PROVIDER_WAIT_TIMEOUT (%s) must not be shorter than purchase (%s) or restore (%s) timeout",
			logPrefix, c.ProviderWaitTimeout, c.PurchaseTimeout, c.RestoreTimeout)
	}
	switch c.Sink {
	case SinkRPC, SinkNone:
	case SinkNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("%s - CAPBRIDGE_NATS_URL is required for nats sink", logPrefix)
		}
	default:
		return fmt.Errorf("%s - unsupported CAPBRIDGE_SINK: %q", logPrefix, c.Sink)
	}
	if c.WrapperVersion != "" {
		if _, err := semver.NewVersion(c.WrapperVersion); err != nil {
			return fmt.Errorf("%s - invalid CAPBRIDGE_WRAPPER_VERSION %q: %w", logPrefix, c.WrapperVersion, err)
		}
	}
	return nil
}
