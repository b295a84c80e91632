package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store owns the accounts and usage_history tables. It is the only component
// that mutates them; concurrent host invocations are serialized by SQLite's
// own file locking.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening DB: %w", err)
	}

	s := NewStore(db)
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			account_name TEXT,
			email TEXT,
			plan TEXT,
			last_updated TEXT,
			sort_order INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS usage_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_id TEXT,
			timestamp TEXT,
			primary_percent REAL,
			session_percent REAL,
			weekly_all_percent REAL,
			weekly_sonnet_percent REAL,
			session_reset TEXT,
			weekly_reset TEXT,
			raw_data TEXT,
			is_synthetic INTEGER DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_history_account_id ON usage_history(account_id);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_history_timestamp ON usage_history(timestamp DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func nullable(v string) interface{} {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func nullableFloat64(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// timestampLayout is fixed-width so TEXT ordering matches time ordering.
// It is also what the extension's Date.toISOString produces.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp reads back timestamps persisted by formatTimestamp. Rows
// written by older extension builds may carry second precision only.
func parseTimestamp(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
