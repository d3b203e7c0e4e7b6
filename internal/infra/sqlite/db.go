// Package sqlite provides SQLite-based persistent storage for Stagecraft.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Key-value store for local profile state (streak data, flags)
		`CREATE TABLE IF NOT EXISTS profile (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Unlocked achievements — one row per unlocked id
		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			unlocked_at INTEGER NOT NULL,
			seen        BOOLEAN DEFAULT 0
		)`,

		// Claimed unlockable resources (profile pictures, dashboard widgets)
		`CREATE TABLE IF NOT EXISTS claims (
			resource_id TEXT PRIMARY KEY,
			claimed_at  INTEGER NOT NULL
		)`,

		// One-time unlock celebrations
		`CREATE TABLE IF NOT EXISTS celebrations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			kind       TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0,
			UNIQUE(kind, subject_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_celebrations_shown ON celebrations(shown)`,

		// ─── Referral backend ──────────────────────────────────────────

		// Device-identified pre-authentication identities
		`CREATE TABLE IF NOT EXISTS anonymous_users (
			device_id          TEXT PRIMARY KEY,
			anonymous_user_id  TEXT NOT NULL UNIQUE,
			device_fingerprint TEXT NOT NULL DEFAULT '',
			created_at         INTEGER NOT NULL,
			last_seen          INTEGER NOT NULL,
			linked_user_id     TEXT,
			linked_at          INTEGER
		)`,

		// Referral codes, keyed by the code itself
		`CREATE TABLE IF NOT EXISTS referral_codes (
			code         TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL,
			owner_type   TEXT NOT NULL,
			linked_email TEXT NOT NULL DEFAULT '',
			is_active    BOOLEAN DEFAULT 1,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_codes_owner ON referral_codes(owner_id)`,

		// Referral stats, one row per owner
		`CREATE TABLE IF NOT EXISTS referral_stats (
			owner_id     TEXT PRIMARY KEY,
			sent         INTEGER DEFAULT 0,
			clicked      INTEGER DEFAULT 0,
			converted    INTEGER DEFAULT 0,
			plans_earned INTEGER DEFAULT 0,
			plans_gifted INTEGER DEFAULT 0,
			created_at   INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL
		)`,

		// Conversions: pending → applied, one-way
		`CREATE TABLE IF NOT EXISTS conversions (
			conversion_id   TEXT PRIMARY KEY,
			referral_code   TEXT NOT NULL,
			referrer_id     TEXT NOT NULL,
			purchaser_id    TEXT NOT NULL,
			conversion_date INTEGER NOT NULL,
			reward_status   TEXT NOT NULL DEFAULT 'pending',
			reward_amount   INTEGER NOT NULL,
			reward_type     TEXT NOT NULL DEFAULT '',
			applied_at      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conv_referrer ON conversions(referrer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conv_purchaser ON conversions(purchaser_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conv_status ON conversions(reward_status)`,

		// Redemptions: exactly one per applied conversion
		`CREATE TABLE IF NOT EXISTS redemptions (
			redemption_id     TEXT PRIMARY KEY,
			conversion_id     TEXT NOT NULL UNIQUE,
			user_id           TEXT NOT NULL,
			redeemed_at       INTEGER NOT NULL,
			subscription_type TEXT NOT NULL DEFAULT '',
			original_price    REAL NOT NULL,
			discounted_price  REAL NOT NULL,
			discount_amount   REAL NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Profile Key-Value ──────────────────────────────────────────────────────

// SetProfile stores a profile key-value pair.
func (d *DB) SetProfile(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO profile (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetProfile retrieves a profile value by key.
// Returns "" if key not found.
func (d *DB) GetProfile(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM profile WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
