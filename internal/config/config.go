package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all mercury-bot configuration.
type Config struct {
	Mercury  MercuryConfig  `mapstructure:"mercury"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// MercuryConfig defines upstream API settings.
type MercuryConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

// MonitorConfig defines polling cadence and detection windows.
type MonitorConfig struct {
	Interval      string `mapstructure:"interval"`
	Lookback      string `mapstructure:"lookback"`
	PrimeLookback string `mapstructure:"prime_lookback"`
	RulesFile     string `mapstructure:"rules_file"`
}

// NotifyConfig defines the initial notification settings. Runtime controls
// can change these after startup; persisted settings take precedence.
type NotifyConfig struct {
	Enabled         bool  `mapstructure:"enabled"`
	MinAmountMinor  int64 `mapstructure:"min_amount_minor"`
	IncludeCredits  bool  `mapstructure:"include_credits"`
	IncludeDebits   bool  `mapstructure:"include_debits"`
	CooldownSeconds int64 `mapstructure:"cooldown_seconds"`
}

// AlertsConfig defines notification sinks.
type AlertsConfig struct {
	Slack   SlackConfig   `mapstructure:"slack"`
	Discord DiscordConfig `mapstructure:"discord"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// ServerConfig defines the status API settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// StorageConfig defines database settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".mercurybot"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("mercury.token", "")
	v.SetDefault("mercury.base_url", "https://api.mercury.com/api/v1")
	v.SetDefault("monitor.rules_file", "")
	v.SetDefault("monitor.interval", "1m")
	v.SetDefault("monitor.lookback", "5m")
	v.SetDefault("monitor.prime_lookback", "24h")
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.min_amount_minor", 0)
	v.SetDefault("notify.include_credits", true)
	v.SetDefault("notify.include_debits", true)
	v.SetDefault("notify.cooldown_seconds", 300)
	v.SetDefault("server.listen", ":8090")
	v.SetDefault("storage.path", filepath.Join(home, ".mercurybot", "monitor.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("alerts.slack.enabled", false)
	v.SetDefault("alerts.slack.webhook_url", "")
	v.SetDefault("alerts.slack.channel", "#transactions")
	v.SetDefault("alerts.discord.enabled", false)
	v.SetDefault("alerts.discord.webhook_url", "")
	v.SetDefault("alerts.webhook.enabled", false)
	v.SetDefault("alerts.webhook.url", "")
	v.SetDefault("alerts.webhook.secret", "")

	// Environment variables
	v.SetEnvPrefix("MERCURY_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the monitor cannot start without. A failure
// here is fatal at startup; nothing else is.
func (c *Config) Validate() error {
	if c.Mercury.Token == "" {
		return fmt.Errorf("mercury.token is required (set MERCURY_BOT_MERCURY_TOKEN or the config file)")
	}
	interval, err := c.Interval()
	if err != nil {
		return err
	}
	lookback, err := c.Lookback()
	if err != nil {
		return err
	}
	if lookback <= interval {
		return fmt.Errorf("monitor.lookback (%s) must exceed monitor.interval (%s), or missed cycles create blind spots", lookback, interval)
	}
	if _, err := c.PrimeLookback(); err != nil {
		return err
	}
	return nil
}

// Interval returns the parsed polling interval.
func (c *Config) Interval() (time.Duration, error) {
	return parseDuration("monitor.interval", c.Monitor.Interval, time.Minute)
}

// Lookback returns the parsed detection window.
func (c *Config) Lookback() (time.Duration, error) {
	return parseDuration("monitor.lookback", c.Monitor.Lookback, 5*time.Minute)
}

// PrimeLookback returns the parsed startup initialization window.
func (c *Config) PrimeLookback() (time.Duration, error) {
	return parseDuration("monitor.prime_lookback", c.Monitor.PrimeLookback, 24*time.Hour)
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}
