// Package storage persists monitor state in SQLite so a restart does not
// replay notifications for transactions the previous process already saw.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aviu16/mercury-bot/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) MarkSeen(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark seen: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO seen_transactions (id) VALUES (?) ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare mark seen: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("mark seen %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark seen: %w", err)
	}
	return nil
}

func (s *SQLite) SeenIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM seen_transactions`)
	if err != nil {
		return nil, fmt.Errorf("query seen ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan seen id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) RecordCooldown(ctx context.Context, vendor string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vendor_cooldowns (vendor, last_notified) VALUES (?, ?)
		 ON CONFLICT(vendor) DO UPDATE SET last_notified = excluded.last_notified`,
		vendor, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record cooldown: %w", err)
	}
	return nil
}

func (s *SQLite) Cooldowns(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT vendor, last_notified FROM vendor_cooldowns`)
	if err != nil {
		return nil, fmt.Errorf("query cooldowns: %w", err)
	}
	defer rows.Close()

	result := make(map[string]time.Time)
	for rows.Next() {
		var vendor string
		var at time.Time
		if err := rows.Scan(&vendor, &at); err != nil {
			return nil, fmt.Errorf("scan cooldown row: %w", err)
		}
		result[vendor] = at.UTC()
	}
	return result, rows.Err()
}

func (s *SQLite) SaveSettings(ctx context.Context, set model.NotificationSettings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_settings
		   (id, enabled, min_amount_minor, include_credits, include_debits, cooldown_seconds, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   enabled = excluded.enabled,
		   min_amount_minor = excluded.min_amount_minor,
		   include_credits = excluded.include_credits,
		   include_debits = excluded.include_debits,
		   cooldown_seconds = excluded.cooldown_seconds,
		   updated_at = excluded.updated_at`,
		set.Enabled, set.MinAmountMinor, set.IncludeCredits, set.IncludeDebits,
		set.CooldownSeconds, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *SQLite) LoadSettings(ctx context.Context) (model.NotificationSettings, bool, error) {
	var set model.NotificationSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT enabled, min_amount_minor, include_credits, include_debits, cooldown_seconds
		 FROM notification_settings WHERE id = 1`,
	).Scan(&set.Enabled, &set.MinAmountMinor, &set.IncludeCredits, &set.IncludeDebits, &set.CooldownSeconds)
	if err == sql.ErrNoRows {
		return model.NotificationSettings{}, false, nil
	}
	if err != nil {
		return model.NotificationSettings{}, false, fmt.Errorf("load settings: %w", err)
	}
	return set, true, nil
}

func (s *SQLite) RecordAlert(ctx context.Context, rec *model.AlertRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.DispatchedAt.IsZero() {
		rec.DispatchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_records (id, transaction_id, vendor, account_name, amount_minor, kind, dispatched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TransactionID, rec.Vendor, rec.AccountName,
		rec.AmountMinor, rec.Kind, rec.DispatchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert record: %w", err)
	}
	return nil
}

func (s *SQLite) RecentAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, transaction_id, vendor, account_name, amount_minor, kind, dispatched_at
		 FROM alert_records ORDER BY dispatched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var records []model.AlertRecord
	for rows.Next() {
		var r model.AlertRecord
		if err := rows.Scan(&r.ID, &r.TransactionID, &r.Vendor, &r.AccountName,
			&r.AmountMinor, &r.Kind, &r.DispatchedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
