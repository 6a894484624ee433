package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"stake-tracker/internal/infrastructure/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Fixed-width RFC 3339 with a full fractional second, so stored timestamps
// compare correctly as strings in range queries and ORDER BY.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens (and if needed creates) the ledger database at the provided
// path, applies pending migrations and seeds the balance row.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Single-writer model: one connection serializes every transaction
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := seedBalance(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed balance: %w", err)
	}

	return db, nil
}

// seedBalance ensures the singleton ledger row exists. A fresh pool starts
// at zero points until the user performs an explicit reset.
func seedBalance(db *sql.DB) error {
	_, err := db.Exec(
		`INSERT OR IGNORE INTO ledger (id, initial_points, points, initialized_at) VALUES (1, 0, 0, ?)`,
		time.Now().UTC().Format(timeFormat),
	)
	return err
}

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
