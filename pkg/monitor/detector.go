package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/aviu16/mercury-bot/pkg/model"
	"github.com/aviu16/mercury-bot/pkg/storage"
)

// Detector runs one polling cycle's change detection: fetch a trailing
// window per account, filter against the seen set, return what is genuinely
// new. Detection is at-least-once inside the window; the SeenSet filter
// makes it at-most-once per transaction id. The trailing window must exceed
// the polling interval by a comfortable multiple so a skipped cycle never
// creates a blind spot.
type Detector struct {
	ledger   Ledger
	seen     *SeenSet
	store    storage.Storage
	logger   *slog.Logger
	lookback time.Duration
	now      func() time.Time
}

// NewDetector creates a detector. store may be nil, in which case the seen
// set lives only in memory.
func NewDetector(ledger Ledger, store storage.Storage, logger *slog.Logger, lookback time.Duration) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if lookback <= 0 {
		lookback = 5 * time.Minute
	}
	return &Detector{
		ledger:   ledger,
		seen:     NewSeenSet(),
		store:    store,
		logger:   logger.With("component", "detector"),
		lookback: lookback,
		now:      time.Now,
	}
}

// Prime initializes the seen set: persisted ids from previous runs plus
// everything currently visible in the startup lookback window. Nothing is
// notified; the point is to prevent a storm of alerts for pre-existing
// transactions on first run.
func (d *Detector) Prime(ctx context.Context, lookback time.Duration) error {
	if d.store != nil {
		ids, err := d.store.SeenIDs(ctx)
		if err != nil {
			return err
		}
		d.seen.AddAll(ids)
	}

	accounts, err := d.ledger.ListAccounts(ctx)
	if err != nil {
		return err
	}

	since := d.now().Add(-lookback)
	var fresh []string
	for _, account := range accounts.All() {
		txns, err := d.ledger.ListTransactions(ctx, account.ID, since)
		if err != nil {
			// A single unreachable account must not leave its recent
			// transactions out of the primed set, or they would all
			// alert on the first real cycle.
			return err
		}
		for _, tx := range txns {
			if d.seen.Add(tx.ID) {
				fresh = append(fresh, tx.ID)
			}
		}
	}

	d.persistSeen(ctx, fresh)
	d.logger.Info("seen set primed", "ids", d.seen.Len(), "lookback", lookback)
	return nil
}

// DetectNew fetches the trailing window for every account and returns the
// transactions not seen before, tagged with account name and kind. A fetch
// failure for one account is logged and skipped; the cycle still reports
// whatever was found elsewhere.
func (d *Detector) DetectNew(ctx context.Context, accounts []model.Account) []model.Transaction {
	since := d.now().Add(-d.lookback)
	var fresh []model.Transaction
	var freshIDs []string

	for _, account := range accounts {
		txns, err := d.ledger.ListTransactions(ctx, account.ID, since)
		if err != nil {
			d.logger.Warn("skipping account for this cycle",
				"account_id", account.ID,
				"account_name", account.Name,
				"error", err)
			continue
		}

		for _, tx := range txns {
			if !d.seen.Add(tx.ID) {
				// Expected steady state: overlapping windows re-surface
				// transactions from the previous cycle.
				continue
			}
			tx.AccountName = account.Name
			tx.AccountKind = account.Kind
			fresh = append(fresh, tx)
			freshIDs = append(freshIDs, tx.ID)
		}
	}

	d.persistSeen(ctx, freshIDs)
	return fresh
}

// SeenCount returns the current size of the seen set.
func (d *Detector) SeenCount() int {
	return d.seen.Len()
}

func (d *Detector) persistSeen(ctx context.Context, ids []string) {
	if d.store == nil || len(ids) == 0 {
		return
	}
	if err := d.store.MarkSeen(ctx, ids...); err != nil {
		// In-memory state stays authoritative for this process; a restart
		// before the next successful write may re-notify these ids.
		d.logger.Error("persisting seen ids failed", "count", len(ids), "error", err)
	}
}
