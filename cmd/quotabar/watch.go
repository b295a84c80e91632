package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quotabar/quotabar/internal/config"
)

func newWatchCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Tail the store and print readings as the extension records them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, dbPath, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			lastID, err := st.LastReadingID(cmd.Context())
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: SQLite writes land via the -wal /
			// -journal siblings, and the db file may be replaced.
			if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(dbPath), err)
			}

			fmt.Printf("watching %s (ctrl-c to stop)\n", dbPath)
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					if !strings.HasPrefix(filepath.Base(event.Name), filepath.Base(dbPath)) {
						continue
					}

					readings, err := st.ReadingsAfter(cmd.Context(), lastID)
					if err != nil {
						return err
					}
					for _, r := range readings {
						fmt.Printf("%-20s ", r.AccountID)
						printReading(r)
						lastID = r.ID
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Printf("[watch] watcher error: %v", err)
				}
			}
		},
	}
}
