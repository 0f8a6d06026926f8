// Package sqlite implements the risk repositories on an embedded SQLite
// database for single-node lite mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register the sqlite driver
)

// timeLayout is fixed-width UTC so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Open opens (creating if needed) the database file at path. SQLite allows a
// single writer, so the pool is capped at one connection.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Store groups the repositories sharing one database.
type Store struct {
	db      *sql.DB
	Risks   *RiskRepository
	History *RiskHistoryRepository
}

// NewStore creates the schema if missing and returns the repositories.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Store{
		db:      db,
		Risks:   NewRiskRepository(db),
		History: NewRiskHistoryRepository(db),
	}, nil
}

// Ping implements port.HealthChecker.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS risks (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT    NOT NULL,
			description    TEXT,
			type           TEXT    NOT NULL,
			severity       INTEGER NOT NULL CHECK (severity BETWEEN 1 AND 5),
			probability    INTEGER NOT NULL CHECK (probability BETWEEN 1 AND 5),
			score          INTEGER NOT NULL,
			status         TEXT    NOT NULL DEFAULT 'draft',
			site_id        INTEGER,
			assigned_to_id INTEGER,
			created_at     TEXT    NOT NULL,
			updated_at     TEXT    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_risks_status ON risks (status)`,
		`CREATE INDEX IF NOT EXISTS idx_risks_site_id ON risks (site_id)`,
		`CREATE TABLE IF NOT EXISTS risk_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			risk_id    INTEGER NOT NULL,
			action     TEXT    NOT NULL,
			changes    JSON,
			actor_id   INTEGER,
			created_at TEXT    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_history_risk_id ON risk_history (risk_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
