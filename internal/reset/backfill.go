package reset

import (
	"context"
	"log"
	"time"

	"github.com/samber/lo"

	"github.com/quotabar/quotabar/internal/parsers"
	"github.com/quotabar/quotabar/internal/store"
)

// syntheticMatchWindow guards the backfill against double-inserting markers:
// a computed reset instant with synthetic rows already within this distance
// is considered covered.
const syntheticMatchWindow = 60 * time.Second

type BackfillResult struct {
	AccountsScanned int
	PairsInserted   int
	PairsSkipped    int
}

// Backfill re-runs reset detection pairwise over the whole history of every
// account and inserts any missing synthetic pairs. Idempotent: a second run
// over the same data inserts nothing.
func (d *Detector) Backfill(ctx context.Context) (BackfillResult, error) {
	result := BackfillResult{}

	ids, err := d.store.AccountIDs(ctx)
	if err != nil {
		return result, err
	}

	for _, accountID := range ids {
		readings, err := d.store.ReadingsAsc(ctx, accountID)
		if err != nil {
			return result, err
		}
		result.AccountsScanned++

		synthetic := lo.Filter(readings, func(r store.Reading, _ int) bool { return r.IsSynthetic })
		observed := lo.Filter(readings, func(r store.Reading, _ int) bool { return !r.IsSynthetic })

		for i := 1; i < len(observed); i++ {
			prev := observed[i-1]
			next := observed[i]
			if !dropDetected(&prev, next, d.threshold) {
				continue
			}
			instant, ok := parsers.ParseResetInstant(prev.WeeklyReset, prev.Timestamp)
			if !ok {
				continue
			}
			if hasSyntheticNear(synthetic, instant) {
				result.PairsSkipped++
				continue
			}

			pair := syntheticPair(prev, instant)
			if err := d.store.InsertReadings(ctx, pair); err != nil {
				return result, err
			}
			synthetic = append(synthetic, pair...)
			result.PairsInserted++
			log.Printf("[backfill] %s: synthetic reset pair at %s", accountID, instant.UTC().Format(time.RFC3339))
		}
	}
	return result, nil
}

func hasSyntheticNear(synthetic []store.Reading, instant time.Time) bool {
	for _, r := range synthetic {
		delta := r.Timestamp.Sub(instant)
		if delta < 0 {
			delta = -delta
		}
		if delta <= syntheticMatchWindow {
			return true
		}
	}
	return false
}
