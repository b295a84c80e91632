// Package reset decides whether a newly scraped reading represents a quota
// reset and materializes the synthetic boundary points charts need to draw a
// clean vertical edge instead of a slow slope between two polls.
package reset

import (
	"context"
	"time"

	"github.com/quotabar/quotabar/internal/parsers"
	"github.com/quotabar/quotabar/internal/store"
)

// DefaultDropThreshold is the weekly-percent drop, in percentage points,
// above which a decrease is treated as a quota reset rather than noise.
// Policy constant, strict greater-than.
const DefaultDropThreshold = 5.0

type Detector struct {
	store     *store.Store
	threshold float64
}

func NewDetector(st *store.Store, threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultDropThreshold
	}
	return &Detector{store: st, threshold: threshold}
}

// Process runs reset detection for a reading that is about to be recorded.
// It must be called before the reading is inserted: the previous reading is
// whatever the store currently holds as latest. When a reset is detected and
// the previous reset text parses, the synthetic pair is inserted in a single
// transaction. The caller always inserts the real reading afterwards,
// whatever the outcome here.
func (d *Detector) Process(ctx context.Context, reading store.Reading) (bool, error) {
	prev, err := d.store.LatestReading(ctx, reading.AccountID)
	if err != nil {
		return false, err
	}
	if !dropDetected(prev, reading, d.threshold) {
		return false, nil
	}

	instant, ok := parsers.ParseResetInstant(prev.WeeklyReset, prev.Timestamp)
	if !ok {
		// Reset happened but we cannot place it on the time axis.
		// Best-effort enrichment: record nothing synthetic.
		return true, nil
	}

	if err := d.store.InsertReadings(ctx, syntheticPair(*prev, instant)); err != nil {
		return true, err
	}
	return true, nil
}

// dropDetected applies the threshold test between consecutive readings.
// Detection needs a weekly-all percent on both sides.
func dropDetected(prev *store.Reading, next store.Reading, threshold float64) bool {
	if prev == nil || prev.WeeklyAllPercent == nil || next.WeeklyAllPercent == nil {
		return false
	}
	return *prev.WeeklyAllPercent-*next.WeeklyAllPercent > threshold
}

// syntheticPair builds the two chart markers for a reset at instant: the old
// levels at the reset instant, then zeros one second later for the vertical
// drop. Synthetic rows carry no reset text and no raw payload.
func syntheticPair(prev store.Reading, instant time.Time) []store.Reading {
	zero := 0.0
	return []store.Reading{
		{
			AccountID:           prev.AccountID,
			Timestamp:           instant,
			PrimaryPercent:      copyFloat(prev.PrimaryPercent),
			SessionPercent:      copyFloat(prev.SessionPercent),
			WeeklyAllPercent:    copyFloat(prev.WeeklyAllPercent),
			WeeklySonnetPercent: copyFloat(prev.WeeklySonnetPercent),
			IsSynthetic:         true,
		},
		{
			AccountID:           prev.AccountID,
			Timestamp:           instant.Add(time.Second),
			PrimaryPercent:      &zero,
			SessionPercent:      &zero,
			WeeklyAllPercent:    &zero,
			WeeklySonnetPercent: &zero,
			IsSynthetic:         true,
		},
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
