package storage

import (
	"context"
	"time"

	"github.com/aviu16/mercury-bot/pkg/model"
)

// Storage persists monitor state across restarts: the set of transaction
// ids already processed, the per-vendor cooldown ledger, notification
// settings, and the dispatched-alert audit log. Reloading must reproduce
// the in-memory invariants exactly; silent loss would cause a
// re-notification storm on the next start.
type Storage interface {
	// MarkSeen records transaction ids as processed. Already-present ids
	// are ignored.
	MarkSeen(ctx context.Context, ids ...string) error

	// SeenIDs returns every transaction id ever marked seen.
	SeenIDs(ctx context.Context) ([]string, error)

	// RecordCooldown stores the last successful notification time for a vendor.
	RecordCooldown(ctx context.Context, vendor string, at time.Time) error

	// Cooldowns returns the vendor -> last-notified mapping.
	Cooldowns(ctx context.Context) (map[string]time.Time, error)

	// SaveSettings persists the current notification settings.
	SaveSettings(ctx context.Context, s model.NotificationSettings) error

	// LoadSettings returns the persisted settings. ok is false when none
	// have been saved yet.
	LoadSettings(ctx context.Context) (s model.NotificationSettings, ok bool, err error)

	// RecordAlert appends a dispatched alert to the audit log.
	RecordAlert(ctx context.Context, rec *model.AlertRecord) error

	// RecentAlerts returns the most recent audit entries, newest first.
	RecentAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error)

	// Close releases resources.
	Close() error
}
