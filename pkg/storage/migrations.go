package storage

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: Initial schema
	`CREATE TABLE IF NOT EXISTS seen_transactions (
		id         TEXT PRIMARY KEY,
		first_seen DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS vendor_cooldowns (
		vendor        TEXT PRIMARY KEY,
		last_notified DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notification_settings (
		id               INTEGER PRIMARY KEY CHECK(id = 1),
		enabled          INTEGER NOT NULL DEFAULT 1,
		min_amount_minor INTEGER NOT NULL DEFAULT 0,
		include_credits  INTEGER NOT NULL DEFAULT 1,
		include_debits   INTEGER NOT NULL DEFAULT 1,
		cooldown_seconds INTEGER NOT NULL DEFAULT 300,
		updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS alert_records (
		id             TEXT PRIMARY KEY,
		transaction_id TEXT NOT NULL,
		vendor         TEXT NOT NULL,
		account_name   TEXT NOT NULL,
		amount_minor   INTEGER NOT NULL,
		kind           TEXT NOT NULL,
		dispatched_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_dispatched_at ON alert_records(dispatched_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_vendor ON alert_records(vendor);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

// runMigrations applies pending schema migrations.
func runMigrations(db *sql.DB) error {
	// Ensure migration tracking table exists
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
