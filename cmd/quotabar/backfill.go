package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotabar/quotabar/internal/config"
	"github.com/quotabar/quotabar/internal/reset"
)

func newBackfillCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Re-run reset detection over all history and insert missing synthetic points",
		Long: `Walks every account's readings in timestamp order, applies the reset drop
test between consecutive observed readings, and inserts synthetic chart
markers where history shows a reset that was never annotated. Safe to run
repeatedly: existing markers within a minute of a computed reset are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, dbPath, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			detector := reset.NewDetector(st, cfg.ResetThreshold)
			result, err := detector.Backfill(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("backfill of %s: %d accounts scanned, %d pairs inserted, %d already covered\n",
				dbPath, result.AccountsScanned, result.PairsInserted, result.PairsSkipped)
			return nil
		},
	}
}
