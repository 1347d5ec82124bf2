package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/journal"
)

func newRecentCmd() *cobra.Command {
	var turns, days int

	cmd := &cobra.Command{
		Use:   "recent <user>",
		Short: "Show a user's recent conversation turns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}

			j := journal.New(st)
			if !j.Exists(args[0]) {
				return fmt.Errorf("no memory for user %s. Run `chronomem init %s` first", args[0], args[0])
			}

			recent := j.ReadRecent(args[0], turns, days)
			if len(recent) == 0 {
				fmt.Println("No turns recorded in the lookback window.")
				return nil
			}

			for _, t := range recent {
				ts := "unknown time"
				if !t.Timestamp.IsZero() {
					ts = t.Timestamp.Format("2006-01-02 15:04")
				}
				fmt.Printf("[%s] %s: %s\n", ts, t.Role, t.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&turns, "turns", 20, "maximum turns to show")
	cmd.Flags().IntVar(&days, "days", 7, "lookback window in days")
	return cmd
}
