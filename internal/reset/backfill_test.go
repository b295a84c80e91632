package reset

import (
	"context"
	"database/sql"
	"testing"

	"github.com/quotabar/quotabar/internal/store"
)

// seedHistory writes two weekly cycles with a reset between them, as raw
// readings only (no synthetic annotation), mimicking a store populated
// before reset detection existed.
func seedHistory(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()
	if err := s.UpsertAccount(ctx, "acct", "", "", "", ts(t, "2024-01-01T00:00:00Z")); err != nil {
		t.Fatalf("upsert account: %v", err)
	}

	readings := []store.Reading{
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T00:00:00Z"), WeeklyAllPercent: floatPtr(60), WeeklyReset: "in 1 hr"},
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T02:00:00Z"), WeeklyAllPercent: floatPtr(3)},
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T04:00:00Z"), WeeklyAllPercent: floatPtr(8)},
	}
	for _, r := range readings {
		if err := s.InsertReading(ctx, r); err != nil {
			t.Fatalf("seed reading: %v", err)
		}
	}
}

func syntheticTimestamps(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT timestamp FROM usage_history WHERE is_synthetic = 1 ORDER BY timestamp ASC`)
	if err != nil {
		t.Fatalf("query synthetic: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var timestamp string
		if err := rows.Scan(&timestamp); err != nil {
			t.Fatalf("scan synthetic: %v", err)
		}
		out = append(out, timestamp)
	}
	return out
}

func TestBackfill_InsertsMissingSyntheticPairs(t *testing.T) {
	s, db := newTestStore(t)
	seedHistory(t, s)

	d := NewDetector(s, 0)
	result, err := d.Backfill(context.Background())
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	if result.AccountsScanned != 1 {
		t.Fatalf("accounts scanned = %d, want 1", result.AccountsScanned)
	}
	if result.PairsInserted != 1 {
		t.Fatalf("pairs inserted = %d, want 1", result.PairsInserted)
	}

	stamps := syntheticTimestamps(t, db)
	if len(stamps) != 2 {
		t.Fatalf("synthetic rows = %d, want 2", len(stamps))
	}
	if stamps[0] != "2024-01-01T01:00:00.000Z" || stamps[1] != "2024-01-01T01:00:01.000Z" {
		t.Fatalf("synthetic timestamps = %v", stamps)
	}
}

func TestBackfill_SecondRunInsertsNothing(t *testing.T) {
	s, db := newTestStore(t)
	seedHistory(t, s)

	d := NewDetector(s, 0)
	if _, err := d.Backfill(context.Background()); err != nil {
		t.Fatalf("first Backfill: %v", err)
	}
	second, err := d.Backfill(context.Background())
	if err != nil {
		t.Fatalf("second Backfill: %v", err)
	}

	if second.PairsInserted != 0 {
		t.Fatalf("second run inserted %d pairs, want 0", second.PairsInserted)
	}
	if second.PairsSkipped != 1 {
		t.Fatalf("second run skipped %d pairs, want 1", second.PairsSkipped)
	}
	if got := countSynthetic(t, db); got != 2 {
		t.Fatalf("synthetic rows after double backfill = %d, want 2", got)
	}
}

func TestBackfill_IgnoresDropsWithoutParseableResetText(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	if err := s.UpsertAccount(ctx, "acct", "", "", "", ts(t, "2024-01-01T00:00:00Z")); err != nil {
		t.Fatalf("upsert account: %v", err)
	}
	for _, r := range []store.Reading{
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T00:00:00Z"), WeeklyAllPercent: floatPtr(70)},
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T02:00:00Z"), WeeklyAllPercent: floatPtr(5)},
	} {
		if err := s.InsertReading(ctx, r); err != nil {
			t.Fatalf("seed reading: %v", err)
		}
	}

	d := NewDetector(s, 0)
	result, err := d.Backfill(ctx)
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}
	if result.PairsInserted != 0 {
		t.Fatalf("pairs inserted = %d, want 0", result.PairsInserted)
	}
	if got := countSynthetic(t, db); got != 0 {
		t.Fatalf("synthetic rows = %d, want 0", got)
	}
}
