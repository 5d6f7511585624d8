package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/aviu16/mercury-bot/pkg/alerts"
	"github.com/aviu16/mercury-bot/pkg/model"
	"github.com/aviu16/mercury-bot/pkg/rules"
	"github.com/aviu16/mercury-bot/pkg/storage"
)

// Dispatcher applies notification eligibility and the vendor cooldown to
// each newly detected transaction, then hands rendered alerts to the
// configured sinks.
type Dispatcher struct {
	settings  *Settings
	cooldown  *Cooldown
	rules     *rules.Rules
	notifiers []alerts.Notifier
	store     storage.Storage
	logger    *slog.Logger
	now       func() time.Time
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates a dispatcher. store may be nil (no audit trail,
// no cooldown persistence); excl may be nil for no exclusions.
func NewDispatcher(settings *Settings, cooldown *Cooldown, excl *rules.Rules, notifiers []alerts.Notifier, store storage.Storage, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if excl == nil {
		excl = rules.New(nil, nil)
	}
	d := &Dispatcher{
		settings:  settings,
		cooldown:  cooldown,
		rules:     excl,
		notifiers: notifiers,
		store:     store,
		logger:    logger.With("component", "dispatcher"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch processes one cycle's batch of new transactions and returns the
// number of notifications actually delivered. Sink failures for one
// transaction never block the rest of the batch, and never roll back seen
// state: a missed alert is an acceptable bounded failure, a duplicate is not.
func (d *Dispatcher) Dispatch(ctx context.Context, txns []model.Transaction) int {
	if len(txns) == 0 {
		return 0
	}

	dispatched := 0
	for _, tx := range txns {
		settings := d.settings.Get()
		if !d.eligible(tx, settings) {
			continue
		}

		now := d.now()
		if !d.cooldown.Permits(tx.VendorName, now, settings.Cooldown()) {
			d.logger.Debug("vendor in cooldown",
				"vendor", tx.VendorName, "transaction_id", tx.ID)
			continue
		}

		if d.deliver(ctx, tx) {
			d.cooldown.Record(tx.VendorName, now)
			d.recordAudit(ctx, tx, now)
			dispatched++
		}
	}
	return dispatched
}

// eligible applies the settings checks in order, short-circuiting on the
// first failure.
func (d *Dispatcher) eligible(tx model.Transaction, settings model.NotificationSettings) bool {
	if !settings.Enabled {
		return false
	}
	if tx.AbsAmountMinor() < settings.MinAmountMinor {
		return false
	}
	if tx.Kind == model.KindCredit && !settings.IncludeCredits {
		return false
	}
	if tx.Kind == model.KindDebit && !settings.IncludeDebits {
		return false
	}
	if d.rules.ExcludesVendor(tx.VendorName) || d.rules.ExcludesCategory(tx.Category) {
		return false
	}
	return true
}

// deliver sends the rendered alert to every sink and reports whether at
// least one accepted it.
func (d *Dispatcher) deliver(ctx context.Context, tx model.Transaction) bool {
	alert := alerts.Render(tx)
	delivered := false
	for _, notifier := range d.notifiers {
		if err := notifier.Send(ctx, alert); err != nil {
			d.logger.Error("alert delivery failed",
				"notifier", notifier.Name(),
				"transaction_id", tx.ID,
				"vendor", tx.VendorName,
				"error", err)
			continue
		}
		delivered = true
	}
	return delivered
}

func (d *Dispatcher) recordAudit(ctx context.Context, tx model.Transaction, at time.Time) {
	if d.store != nil {
		if err := d.store.RecordCooldown(ctx, tx.VendorName, at); err != nil {
			d.logger.Error("persisting cooldown failed", "vendor", tx.VendorName, "error", err)
		}
		rec := &model.AlertRecord{
			TransactionID: tx.ID,
			Vendor:        tx.VendorName,
			AccountName:   tx.AccountName,
			AmountMinor:   tx.AmountMinor,
			Kind:          string(tx.Kind),
			DispatchedAt:  at,
		}
		if err := d.store.RecordAlert(ctx, rec); err != nil {
			d.logger.Error("recording alert audit failed", "transaction_id", tx.ID, "error", err)
		}
	}

	d.logger.Info("alert dispatched",
		"transaction_id", tx.ID,
		"vendor", tx.VendorName,
		"account", tx.AccountName,
		"amount", model.FormatAmount(tx.AmountMinor),
		"kind", tx.Kind)
}
