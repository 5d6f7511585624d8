package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aviu16/mercury-bot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.mercury.com/api/v1", cfg.Mercury.BaseURL)
	assert.Equal(t, "1m", cfg.Monitor.Interval)
	assert.Equal(t, "5m", cfg.Monitor.Lookback)
	assert.Equal(t, "24h", cfg.Monitor.PrimeLookback)
	assert.True(t, cfg.Notify.Enabled)
	assert.True(t, cfg.Notify.IncludeCredits)
	assert.True(t, cfg.Notify.IncludeDebits)
	assert.Equal(t, int64(300), cfg.Notify.CooldownSeconds)
	assert.Equal(t, ":8090", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "#transactions", cfg.Alerts.Slack.Channel)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte(`
mercury:
  token: secret-token
monitor:
  interval: 30s
  lookback: 10m
notify:
  min_amount_minor: 2500
  include_credits: false
alerts:
  discord:
    enabled: true
    webhook_url: https://discord.com/api/webhooks/x
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Mercury.Token)
	assert.Equal(t, "30s", cfg.Monitor.Interval)
	assert.Equal(t, "10m", cfg.Monitor.Lookback)
	assert.Equal(t, int64(2500), cfg.Notify.MinAmountMinor)
	assert.False(t, cfg.Notify.IncludeCredits)
	assert.True(t, cfg.Alerts.Discord.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MERCURY_BOT_MERCURY_TOKEN", "env-token")
	t.Setenv("MERCURY_BOT_LOGGING_LEVEL", "error")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Mercury.Token)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidate_RequiresToken(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mercury.token")
}

func TestValidate_LookbackMustExceedInterval(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Mercury.Token = "x"
	cfg.Monitor.Interval = "5m"
	cfg.Monitor.Lookback = "1m"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookback")
}

func TestValidate_OK(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Mercury.Token = "x"

	require.NoError(t, cfg.Validate())

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)

	lookback, err := cfg.Lookback()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, lookback)

	prime, err := cfg.PrimeLookback()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, prime)
}

func TestParseDuration_Invalid(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Monitor.Interval = "soon"

	_, err = cfg.Interval()
	assert.Error(t, err)
}
