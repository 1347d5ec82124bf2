package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/cleanup"
	"github.com/chronomem/chronomem/internal/summarize"
)

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup [user...]",
		Short: "Run the tier-promotion batch now",
		Long: `Run the cleanup batch: soft-trim old daily logs, promote completed weeks
and months into digests, compress old archives, and build yearly summaries.
Without arguments every user is processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}

			llm, err := newClient(cfg)
			if err != nil {
				return err
			}
			sum := summarize.New(llm)

			users := args
			if len(users) == 0 {
				users, err = st.Users()
				if err != nil {
					return err
				}
			}
			if len(users) == 0 {
				fmt.Println("No users to clean up.")
				return nil
			}

			bar := progressbar.Default(int64(len(users)), "cleaning up")
			sched := cleanup.New(cfg.Cleanup, st, sum)
			stats := sched.RunAll(cmd.Context(), users, func(string) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()

			fmt.Printf("\nCleanup done: %s\n", stats.String())
			return nil
		},
	}
}
