package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/journal"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch <user>",
		Short: "Watch a user's daily logs and keep the master index current",
		Long: `Start a long-running watcher on the user's daily directory. Whenever
daily files change the master index is rebuilt, debounced so that a burst of
appends triggers a single rebuild.

Press Ctrl-C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}

			user := args[0]
			j := journal.New(st)
			if !j.Exists(user) {
				return fmt.Errorf("no memory for user %s. Run `chronomem init %s` first", user, user)
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			dailyDir := filepath.Join(st.UserDir(user), "daily")
			if err := watcher.Add(dailyDir); err != nil {
				return fmt.Errorf("watch %s: %w", dailyDir, err)
			}

			debounce := time.Duration(debounceMs) * time.Millisecond
			fmt.Printf("Watching %s (debounce %s). Press Ctrl-C to stop.\n", dailyDir, debounce)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			timer := time.NewTimer(debounce)
			timer.Stop()
			dirty := false

			for {
				select {
				case <-sigCh:
					fmt.Println("\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Ext(event.Name) != ".md" {
						continue
					}
					dirty = true
					timer.Reset(debounce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)

				case <-timer.C:
					if !dirty {
						continue
					}
					dirty = false
					if err := j.RebuildIndex(user); err != nil {
						fmt.Fprintf(os.Stderr, "  rebuild index: %v\n", err)
						continue
					}
					fmt.Printf("[%s] index rebuilt\n", time.Now().Format("15:04:05"))
				}
			}
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "debounce interval in milliseconds")
	return cmd
}
