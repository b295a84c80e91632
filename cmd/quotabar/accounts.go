package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quotabar/quotabar/internal/config"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	critStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	syntheticTag = lipgloss.NewStyle().Faint(true).Render("synthetic")
)

func newAccountsCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List tracked accounts in display order with their latest usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			accounts, err := st.AllAccounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println("no accounts recorded yet")
				return nil
			}

			fmt.Println(headerStyle.Render(fmt.Sprintf("%-3s %-24s %-10s %-8s %s", "#", "ACCOUNT", "PLAN", "USAGE", "LAST UPDATED")))
			for _, account := range accounts {
				name := account.AccountName
				if name == "" {
					name = account.ID
				}
				fmt.Printf("%-3d %-24s %-10s %-8s %s\n",
					account.SortOrder,
					name,
					account.Plan,
					renderPercent(account.LatestPercent),
					dimStyle.Render(account.LastUpdated),
				)
			}
			return nil
		},
	}
}

func renderPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	text := fmt.Sprintf("%.1f%%", *v)
	switch {
	case *v >= 95:
		return critStyle.Render(text)
	case *v >= 80:
		return warnStyle.Render(text)
	default:
		return text
	}
}
