package store

import (
	"context"
	"fmt"
)

type StoreStats struct {
	Accounts          int64
	Readings          int64
	SyntheticReadings int64
}

func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	if s == nil || s.db == nil {
		return StoreStats{}, fmt.Errorf("store: not initialized")
	}
	stats := StoreStats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&stats.Accounts); err != nil {
		return StoreStats{}, fmt.Errorf("store: count accounts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usage_history`).Scan(&stats.Readings); err != nil {
		return StoreStats{}, fmt.Errorf("store: count usage_history: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usage_history WHERE is_synthetic = 1`).Scan(&stats.SyntheticReadings); err != nil {
		return StoreStats{}, fmt.Errorf("store: count synthetic readings: %w", err)
	}
	return stats, nil
}
