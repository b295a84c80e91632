package store

import (
	"context"
	"database/sql"
	"fmt"
)

const readingColumns = `id, account_id, timestamp, primary_percent, session_percent,
	weekly_all_percent, weekly_sonnet_percent, session_reset, weekly_reset, raw_data, is_synthetic`

// InsertReading appends one reading row. Timestamps are not unique: a
// synthetic reset pair lands one second apart and real readings may collide.
func (s *Store) InsertReading(ctx context.Context, r Reading) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now()
	}
	return insertReading(ctx, s.db, r)
}

// InsertReadings appends a batch of rows in one transaction so a crash or a
// concurrent reader never observes a partially written synthetic pair.
func (s *Store) InsertReadings(ctx context.Context, readings []Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: insert readings begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range readings {
		if r.Timestamp.IsZero() {
			r.Timestamp = s.now()
		}
		if err := insertReading(ctx, tx, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: insert readings commit tx: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertReading(ctx context.Context, db execer, r Reading) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO usage_history (
			account_id, timestamp, primary_percent, session_percent,
			weekly_all_percent, weekly_sonnet_percent, session_reset,
			weekly_reset, raw_data, is_synthetic
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.AccountID,
		formatTimestamp(r.Timestamp),
		nullableFloat64(r.PrimaryPercent),
		nullableFloat64(r.SessionPercent),
		nullableFloat64(r.WeeklyAllPercent),
		nullableFloat64(r.WeeklySonnetPercent),
		nullable(r.SessionReset),
		nullable(r.WeeklyReset),
		nullable(r.RawData),
		boolToInt(r.IsSynthetic),
	)
	if err != nil {
		return fmt.Errorf("store: insert reading for %s: %w", r.AccountID, err)
	}
	return nil
}

// LatestReading returns the most recent reading for the account by timestamp
// descending, or nil when the account has no readings yet.
func (s *Store) LatestReading(ctx context.Context, accountID string) (*Reading, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+readingColumns+`
		FROM usage_history
		WHERE account_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`, accountID)

	reading, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: latest reading for %s: %w", accountID, err)
	}
	return &reading, nil
}

// History returns the most recent limit readings, newest first. Callers that
// chart chronologically reverse the slice.
func (s *Store) History(ctx context.Context, accountID string, limit int) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM usage_history
		WHERE account_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query history for %s: %w", accountID, err)
	}
	defer rows.Close()
	return collectReadings(rows)
}

// ReadingsAsc returns every reading for the account in chronological order.
// The backfill pass walks this to re-run reset detection pairwise.
func (s *Store) ReadingsAsc(ctx context.Context, accountID string) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM usage_history
		WHERE account_id = ?
		ORDER BY timestamp ASC, id ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("store: query readings for %s: %w", accountID, err)
	}
	defer rows.Close()
	return collectReadings(rows)
}

// ReadingsAfter returns rows inserted after the given rowid, oldest first.
// Used by the watch command to tail the store.
func (s *Store) ReadingsAfter(ctx context.Context, afterID int64) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM usage_history
		WHERE id > ?
		ORDER BY id ASC
	`, afterID)
	if err != nil {
		return nil, fmt.Errorf("store: query readings after %d: %w", afterID, err)
	}
	defer rows.Close()
	return collectReadings(rows)
}

// LastReadingID returns the highest rowid in usage_history, 0 when empty.
func (s *Store) LastReadingID(ctx context.Context) (int64, error) {
	var id sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM usage_history`).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: query last reading id: %w", err)
	}
	return id.Int64, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (Reading, error) {
	var (
		r            Reading
		timestamp    sql.NullString
		primary      sql.NullFloat64
		session      sql.NullFloat64
		weeklyAll    sql.NullFloat64
		weeklySonnet sql.NullFloat64
		sessionReset sql.NullString
		weeklyReset  sql.NullString
		rawData      sql.NullString
		synthetic    sql.NullInt64
	)
	if err := row.Scan(
		&r.ID, &r.AccountID, &timestamp, &primary, &session,
		&weeklyAll, &weeklySonnet, &sessionReset, &weeklyReset, &rawData, &synthetic,
	); err != nil {
		return Reading{}, err
	}

	r.Timestamp = parseTimestamp(timestamp.String)
	if primary.Valid {
		v := primary.Float64
		r.PrimaryPercent = &v
	}
	if session.Valid {
		v := session.Float64
		r.SessionPercent = &v
	}
	if weeklyAll.Valid {
		v := weeklyAll.Float64
		r.WeeklyAllPercent = &v
	}
	if weeklySonnet.Valid {
		v := weeklySonnet.Float64
		r.WeeklySonnetPercent = &v
	}
	r.SessionReset = sessionReset.String
	r.WeeklyReset = weeklyReset.String
	r.RawData = rawData.String
	r.IsSynthetic = synthetic.Int64 != 0
	return r, nil
}

func collectReadings(rows *sql.Rows) ([]Reading, error) {
	var out []Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan reading row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate reading rows: %w", err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
