package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aviu16/mercury-bot/internal/config"
	"github.com/aviu16/mercury-bot/pkg/alerts"
	"github.com/aviu16/mercury-bot/pkg/mercury"
	"github.com/aviu16/mercury-bot/pkg/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mercurybot",
	Short: "Mercury transaction monitor with change detection and alerts",
	Long: `mercurybot polls Mercury bank accounts for new transactions and pushes
alerts to Slack, Discord, or webhook sinks. Detection is dedup-based, so every
transaction alerts at most once, with per-vendor cooldowns and configurable
exclusion rules.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.mercurybot/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initClient creates a Mercury API client from config.
func initClient(cfg *config.Config, logger *slog.Logger) (*mercury.Client, error) {
	var opts []mercury.Option
	if cfg.Mercury.BaseURL != "" {
		opts = append(opts, mercury.WithBaseURL(cfg.Mercury.BaseURL))
	}
	return mercury.NewClient(cfg.Mercury.Token, logger, opts...)
}

// initStorage creates a storage backend from config.
func initStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewSQLite(cfg.Storage.Path)
}

// initNotifiers creates alert notifiers from config.
func initNotifiers(cfg *config.Config) []alerts.Notifier {
	var notifiers []alerts.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
		))
	}

	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewDiscordNotifier(
			cfg.Alerts.Discord.WebhookURL,
		))
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
		))
	}

	return notifiers
}
