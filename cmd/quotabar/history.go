package main

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/quotabar/quotabar/internal/config"
	"github.com/quotabar/quotabar/internal/store"
)

func newHistoryCommand(cfg config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [account-id]",
		Short: "Print recent readings for an account, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID := cfg.DefaultAccountID
			if len(args) == 1 {
				accountID = args[0]
			}

			st, _, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			readings, err := st.History(cmd.Context(), accountID, limit)
			if err != nil {
				return err
			}
			if len(readings) == 0 {
				fmt.Printf("no readings for account %q\n", accountID)
				return nil
			}

			for _, r := range lo.Reverse(readings) {
				printReading(r)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", cfg.HistoryLimit, "maximum readings to show")
	return cmd
}

func printReading(r store.Reading) {
	line := fmt.Sprintf("%s  session=%s weekly=%s sonnet=%s",
		r.Timestamp.UTC().Format(time.RFC3339),
		formatPercent(r.SessionPercent),
		formatPercent(r.WeeklyAllPercent),
		formatPercent(r.WeeklySonnetPercent),
	)
	if r.WeeklyReset != "" {
		line += fmt.Sprintf(" resets=%q", r.WeeklyReset)
	}
	if r.IsSynthetic {
		line += "  " + syntheticTag
	}
	fmt.Println(line)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
