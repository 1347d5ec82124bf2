package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <user>",
		Short: "Show file counts and sizes across a user's memory tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}

			s := st.UserStats(args[0])
			if !s.Exists {
				return fmt.Errorf("no memory for user %s. Run `chronomem init %s` first", args[0], args[0])
			}

			fmt.Printf("\nMemory for %s\n", args[0])
			fmt.Printf("Daily:      %d files (%s)\n", s.DailyFiles, formatBytes(s.DailyBytes))
			fmt.Printf("Weekly:     %d files\n", s.WeeklyFiles)
			fmt.Printf("Monthly:    %d files\n", s.MonthlyFiles)
			fmt.Printf("Yearly:     %d files\n", s.YearlyFiles)
			fmt.Printf("Archive:    %d plain, %d compressed\n", s.ArchivedFiles, s.CompressedFiles)
			fmt.Printf("Total size: %s\n", formatBytes(s.TotalBytes))
			fmt.Println()
			return nil
		},
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
