package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CAPBRIDGE_PURCHASE_TIMEOUT", "2s")
	t.Setenv("CAPBRIDGE_RESTORE_TIMEOUT", "3s")
	t.Setenv("CAPBRIDGE_PROVIDER_WAIT_TIMEOUT", "5s")
	t.Setenv("CAPBRIDGE_SINK", "nats")
	t.Setenv("CAPBRIDGE_NATS_SUBJECT_PREFIX", "app.events")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.PurchaseTimeout)
	assert.Equal(t, 3*time.Second, cfg.RestoreTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProviderWaitTimeout)
	assert.Equal(t, SinkNATS, cfg.Sink)
	assert.Equal(t, "app.events", cfg.NATSSubjectPrefix)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "equal timeouts", mutate: func(c *Config) { c.ProviderWaitTimeout = c.PurchaseTimeout }},
		{description: "provider wait shorter than purchase", mutate: func(c *Config) { c.ProviderWaitTimeout = 30 * time.Second }, expectErr: true},
		{description: "provider wait shorter than restore", mutate: func(c *Config) { c.RestoreTimeout = 90 * time.Second }, expectErr: true},
		{description: "zero purchase timeout", mutate: func(c *Config) { c.PurchaseTimeout = 0 }, expectErr: true},
		{description: "unknown sink", mutate: func(c *Config) { c.Sink = "kafka" }, expectErr: true},
		{description: "nats without url", mutate: func(c *Config) { c.Sink = SinkNATS; c.NATSURL = "" }, expectErr: true},
		{description: "bad wrapper version", mutate: func(c *Config) { c.WrapperVersion = "latest" }, expectErr: true},
		{description: "empty wrapper version", mutate: func(c *Config) { c.WrapperVersion = "" }},
	}
	for _, tc := range testCases {
		cfg := Default()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.expectErr {
			assert.Error(t, err, tc.description)
			continue
		}
		assert.NoError(t, err, tc.description)
	}
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	buf := &bytes.Buffer{}
	logger := SetupLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
