package store

import (
	"context"
	"testing"
)

func seedAccounts(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		if err := s.UpsertAccount(ctx, id, "", "", "", ts(t, "2024-01-01T00:00:00Z")); err != nil {
			t.Fatalf("seed account %s: %v", id, err)
		}
	}
}

func accountOrder(t *testing.T, s *Store) []string {
	t.Helper()
	accounts, err := s.AllAccounts(context.Background())
	if err != nil {
		t.Fatalf("AllAccounts: %v", err)
	}
	out := make([]string, 0, len(accounts))
	for i, account := range accounts {
		if account.SortOrder != i {
			t.Fatalf("sort order not contiguous: %s has %d at position %d", account.ID, account.SortOrder, i)
		}
		out = append(out, account.ID)
	}
	return out
}

func TestReorderToFront_RenumbersContiguously(t *testing.T) {
	s, _ := newTestStore(t)
	seedAccounts(t, s, "A", "B", "C", "D")

	if err := s.ReorderToFront(context.Background(), "C"); err != nil {
		t.Fatalf("ReorderToFront: %v", err)
	}

	got := accountOrder(t, s)
	want := []string{"C", "A", "B", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReorderToFront_NoOpForUnknownOrFrontAccount(t *testing.T) {
	s, _ := newTestStore(t)
	seedAccounts(t, s, "A", "B")

	if err := s.ReorderToFront(context.Background(), "missing"); err != nil {
		t.Fatalf("ReorderToFront unknown: %v", err)
	}
	if err := s.ReorderToFront(context.Background(), "A"); err != nil {
		t.Fatalf("ReorderToFront front: %v", err)
	}

	got := accountOrder(t, s)
	if got[0] != "A" || got[1] != "B" {
		t.Fatalf("order = %v, want [A B]", got)
	}
}

func TestAllAccounts_AnnotatesLatestPrimaryPercent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s, "acct")

	for _, r := range []Reading{
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T10:00:00Z"), PrimaryPercent: floatPtr(20)},
		{AccountID: "acct", Timestamp: ts(t, "2024-01-01T11:00:00Z"), PrimaryPercent: floatPtr(35)},
	} {
		if err := s.InsertReading(ctx, r); err != nil {
			t.Fatalf("insert reading: %v", err)
		}
	}

	accounts, err := s.AllAccounts(ctx)
	if err != nil {
		t.Fatalf("AllAccounts: %v", err)
	}
	if accounts[0].LatestPercent == nil || *accounts[0].LatestPercent != 35 {
		t.Fatalf("latest percent = %v, want 35", accounts[0].LatestPercent)
	}
}

func TestDeleteAccount_CascadesToReadings(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	seedAccounts(t, s, "acct", "other")

	for _, accountID := range []string{"acct", "other"} {
		if err := s.InsertReading(ctx, Reading{AccountID: accountID, Timestamp: ts(t, "2024-01-01T10:00:00Z")}); err != nil {
			t.Fatalf("insert reading: %v", err)
		}
	}

	if err := s.DeleteAccount(ctx, "acct"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	var accounts int
	if err := db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accounts); err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if accounts != 1 {
		t.Fatalf("account count = %d, want 1", accounts)
	}

	var readings int
	if err := db.QueryRow(`SELECT COUNT(*) FROM usage_history WHERE account_id = 'acct'`).Scan(&readings); err != nil {
		t.Fatalf("count readings: %v", err)
	}
	if readings != 0 {
		t.Fatalf("readings for deleted account = %d, want 0", readings)
	}

	var remaining int
	if err := db.QueryRow(`SELECT COUNT(*) FROM usage_history`).Scan(&remaining); err != nil {
		t.Fatalf("count remaining readings: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("remaining readings = %d, want 1", remaining)
	}
}
