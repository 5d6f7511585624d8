package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status is a point-in-time snapshot of the monitoring loop, served by the
// status API and CLI.
type Status struct {
	Running    bool      `json:"running"`
	Primed     bool      `json:"primed"`
	Enabled    bool      `json:"enabled"`
	SeenCount  int       `json:"seen_count"`
	Cycles     uint64    `json:"cycles"`
	LastCycle  time.Time `json:"last_cycle,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Interval   string    `json:"interval"`
	Dispatched uint64    `json:"dispatched"`
}

// Scheduler drives the detect/dispatch pipeline on a fixed cadence. Cycles
// never overlap: one cycle runs to completion before the next tick is
// consumed. The loop degrades on upstream failure (skip a cycle, log) and
// exits only when the context is canceled.
type Scheduler struct {
	ledger        Ledger
	detector      *Detector
	dispatcher    *Dispatcher
	settings      *Settings
	logger        *slog.Logger
	interval      time.Duration
	primeLookback time.Duration

	mu         sync.Mutex
	running    bool
	primed     bool
	cycles     uint64
	dispatched uint64
	lastCycle  time.Time
	lastErr    string
}

// NewScheduler wires the pipeline. interval is the polling cadence;
// primeLookback is the startup window marked as already seen.
func NewScheduler(ledger Ledger, detector *Detector, dispatcher *Dispatcher, settings *Settings, logger *slog.Logger, interval, primeLookback time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if primeLookback <= 0 {
		primeLookback = 24 * time.Hour
	}
	return &Scheduler{
		ledger:        ledger,
		detector:      detector,
		dispatcher:    dispatcher,
		settings:      settings,
		logger:        logger.With("component", "scheduler"),
		interval:      interval,
		primeLookback: primeLookback,
	}
}

// Run primes the seen set and then polls until ctx is canceled. The
// periodic loop never starts before priming succeeds; running it unprimed
// would misreport every recent transaction as new. Prime failures are
// retried after one interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.setRunning(true)
	defer s.setRunning(false)

	for {
		err := s.detector.Prime(ctx, s.primeLookback)
		if err == nil {
			break
		}
		s.recordError(err)
		s.logger.Warn("priming failed, retrying", "retry_in", s.interval, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.interval):
		}
	}
	s.setPrimed()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.cycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("monitor stopping", "cycles", s.Status().Cycles)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// cycle runs one detect/dispatch pass. Any failure is absorbed: the monitor
// skips the cycle and self-heals on the next tick.
func (s *Scheduler) cycle(ctx context.Context) {
	accounts, err := s.ledger.ListAccounts(ctx)
	if err != nil {
		s.recordError(err)
		s.logger.Warn("skipping cycle, account enumeration failed", "error", err)
		return
	}

	fresh := s.detector.DetectNew(ctx, accounts.All())
	sent := s.dispatcher.Dispatch(ctx, fresh)

	s.mu.Lock()
	s.cycles++
	s.dispatched += uint64(sent)
	s.lastCycle = time.Now().UTC()
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Debug("cycle complete",
		"accounts", len(accounts.All()),
		"new_transactions", len(fresh),
		"dispatched", sent,
		"seen_total", s.detector.SeenCount())
}

// Status reports the current loop state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:    s.running,
		Primed:     s.primed,
		Enabled:    s.settings.Get().Enabled,
		SeenCount:  s.detector.SeenCount(),
		Cycles:     s.cycles,
		Dispatched: s.dispatched,
		LastCycle:  s.lastCycle,
		LastError:  s.lastErr,
		Interval:   s.interval.String(),
	}
}

func (s *Scheduler) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

func (s *Scheduler) setPrimed() {
	s.mu.Lock()
	s.primed = true
	s.mu.Unlock()
}

func (s *Scheduler) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}
