package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotabar/quotabar/internal/config"
	"github.com/quotabar/quotabar/internal/store"
)

var flagDBPath string

func main() {
	if os.Getenv("QUOTABAR_DEBUG") == "" {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:   "quotabar",
		Short: "quotabar inspects the usage history recorded by the quotabar browser extension.",
	}
	root.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to the usage database (default: state dir)")

	root.AddCommand(
		newAccountsCommand(cfg),
		newHistoryCommand(cfg),
		newBackfillCommand(cfg),
		newWatchCommand(cfg),
		newDeleteAccountCommand(cfg),
		newStatsCommand(cfg),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore resolves the database path (flag > config > state dir) and opens
// the store. Callers must Close it.
func openStore(cfg config.Config) (*store.Store, string, error) {
	dbPath := strings.TrimSpace(flagDBPath)
	if dbPath == "" {
		dbPath = strings.TrimSpace(cfg.DBPath)
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, "", err
		}
	}

	st, err := store.OpenStore(dbPath)
	if err != nil {
		return nil, "", err
	}
	return st, dbPath, nil
}
