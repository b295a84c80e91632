package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// UpsertAccount creates the account on first sight (assigning the next
// sort_order) or refreshes its metadata. Empty strings mean "not supplied":
// email and plan are only overwritten by non-empty values, and account_name is
// only filled when the column is still NULL, so a user-chosen name is never
// clobbered by an automatic update. last_updated always moves forward to ts.
func (s *Store) UpsertAccount(ctx context.Context, id, accountName, email, plan string, ts time.Time) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("store: upsert account: empty account id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, account_name, email, plan, last_updated, sort_order)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM accounts))
		ON CONFLICT(id) DO UPDATE SET
			account_name = COALESCE(account_name, excluded.account_name),
			email = COALESCE(excluded.email, email),
			plan = COALESCE(excluded.plan, plan),
			last_updated = excluded.last_updated
	`,
		id,
		nullable(accountName),
		nullable(email),
		nullable(plan),
		formatTimestamp(ts),
	)
	if err != nil {
		return fmt.Errorf("store: upsert account %s: %w", id, err)
	}
	return nil
}

// RenameAccount sets the user-chosen display name, overriding any value.
func (s *Store) RenameAccount(ctx context.Context, id, accountName string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("store: rename account: empty account id")
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET account_name = ? WHERE id = ?`,
		nullable(accountName), id,
	); err != nil {
		return fmt.Errorf("store: rename account %s: %w", id, err)
	}
	return nil
}

// AllAccounts returns accounts in display order, each annotated with the
// latest observed primary percent.
func (s *Store) AllAccounts(ctx context.Context) ([]AccountSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			a.id, a.account_name, a.email, a.plan, a.last_updated, a.sort_order,
			(
				SELECT h.primary_percent FROM usage_history h
				WHERE h.account_id = a.id
				ORDER BY h.timestamp DESC, h.id DESC
				LIMIT 1
			) AS latest_percent
		FROM accounts a
		ORDER BY a.sort_order ASC, a.last_updated DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query accounts: %w", err)
	}
	defer rows.Close()

	var out []AccountSummary
	for rows.Next() {
		var (
			summary     AccountSummary
			accountName sql.NullString
			email       sql.NullString
			plan        sql.NullString
			lastUpdated sql.NullString
			percent     sql.NullFloat64
		)
		if err := rows.Scan(&summary.ID, &accountName, &email, &plan, &lastUpdated, &summary.SortOrder, &percent); err != nil {
			return nil, fmt.Errorf("store: scan account row: %w", err)
		}
		summary.AccountName = accountName.String
		summary.Email = email.String
		summary.Plan = plan.String
		summary.LastUpdated = lastUpdated.String
		if percent.Valid {
			v := percent.Float64
			summary.LatestPercent = &v
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate account rows: %w", err)
	}
	return out, nil
}

// AccountIDs returns all account ids in display order.
func (s *Store) AccountIDs(ctx context.Context) ([]string, error) {
	accounts, err := s.AllAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(accounts, func(a AccountSummary, _ int) string { return a.ID }), nil
}

// ReorderToFront moves the account to sort_order 0 and renumbers the rest
// contiguously, preserving their relative order. Unknown ids and accounts
// already at the front are a no-op.
func (s *Store) ReorderToFront(ctx context.Context, accountID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: reorder begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM accounts ORDER BY sort_order ASC, last_updated DESC`)
	if err != nil {
		return fmt.Errorf("store: reorder query accounts: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("store: reorder scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: reorder iterate account ids: %w", err)
	}

	if !lo.Contains(ids, accountID) {
		return nil
	}
	if len(ids) > 0 && ids[0] == accountID {
		return nil
	}

	ordered := append([]string{accountID}, lo.Without(ids, accountID)...)
	for position, id := range ordered {
		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET sort_order = ? WHERE id = ?`, position, id); err != nil {
			return fmt.Errorf("store: reorder update %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: reorder commit tx: %w", err)
	}
	return nil
}

// DeleteAccount removes the account and all its readings in one transaction.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: delete begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM usage_history WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("store: delete readings for %s: %w", accountID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID); err != nil {
		return fmt.Errorf("store: delete account %s: %w", accountID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: delete commit tx: %w", err)
	}
	return nil
}
