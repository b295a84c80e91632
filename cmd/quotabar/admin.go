package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotabar/quotabar/internal/config"
)

func newDeleteAccountCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-account <account-id>",
		Short: "Delete an account and all of its readings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted account %q and its readings\n", args[0])
			return nil
		},
	}
}

func newStatsCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print store row counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, dbPath, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s\n  accounts: %d\n  readings: %d (%d synthetic)\n",
				dbPath, stats.Accounts, stats.Readings, stats.SyntheticReadings)
			return nil
		},
	}
}
