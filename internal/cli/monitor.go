package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aviu16/mercury-bot/internal/server"
	"github.com/aviu16/mercury-bot/pkg/model"
	"github.com/aviu16/mercury-bot/pkg/monitor"
	"github.com/aviu16/mercury-bot/pkg/rules"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the transaction monitor",
	Long: `Poll Mercury accounts on a fixed interval, detect new transactions, and
dispatch alerts to the configured sinks. Also serves the status API.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringP("listen", "l", "", "Status API listen address (default from config)")
	monitorCmd.Flags().String("interval", "", "Polling interval (default from config)")
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}
	if interval, _ := cmd.Flags().GetString("interval"); interval != "" {
		cfg.Monitor.Interval = interval
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	interval, err := cfg.Interval()
	if err != nil {
		return err
	}
	lookback, err := cfg.Lookback()
	if err != nil {
		return err
	}
	primeLookback, err := cfg.PrimeLookback()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	client, err := initClient(cfg, logger)
	if err != nil {
		return err
	}

	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	excl, err := rules.Load(cfg.Monitor.RulesFile)
	if err != nil {
		return fmt.Errorf("load exclusion rules: %w", err)
	}

	ctx := cmd.Context()

	// Persisted settings win over config so runtime changes survive restarts.
	initial := model.NotificationSettings{
		Enabled:         cfg.Notify.Enabled,
		MinAmountMinor:  cfg.Notify.MinAmountMinor,
		IncludeCredits:  cfg.Notify.IncludeCredits,
		IncludeDebits:   cfg.Notify.IncludeDebits,
		CooldownSeconds: cfg.Notify.CooldownSeconds,
	}
	stored, ok, err := store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if ok {
		initial = stored
	} else if err := store.SaveSettings(ctx, initial); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	settings := monitor.NewSettings(initial)

	cooldown := monitor.NewCooldown()
	entries, err := store.Cooldowns(ctx)
	if err != nil {
		return fmt.Errorf("load cooldowns: %w", err)
	}
	cooldown.Restore(entries)

	notifiers := initNotifiers(cfg)
	if len(notifiers) == 0 {
		logger.Warn("no notification sinks configured, alerts will be dropped")
	}

	detector := monitor.NewDetector(client, store, logger, lookback)
	dispatcher := monitor.NewDispatcher(settings, cooldown, excl, notifiers, store, logger)
	sched := monitor.NewScheduler(client, detector, dispatcher, settings, logger, interval, primeLookback)

	apiServer := server.NewServer(sched, settings, store, logger)

	mux := http.NewServeMux()
	mux.Handle("/healthz", apiServer.Handler())
	mux.Handle("/api/", apiServer.Handler())

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := sched.Run(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("scheduler stopped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("monitor started", "listen", cfg.Server.Listen, "interval", interval.String())
		fmt.Fprintf(os.Stderr, "mercurybot monitoring, status API on %s\n", cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		cancel()
		<-schedDone
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		<-schedDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("monitor stopped")
	return nil
}
