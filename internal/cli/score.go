package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/scorer"
)

func newScoreCmd() *cobra.Command {
	var mentions int
	var ageDays int

	cmd := &cobra.Command{
		Use:   "score <snippet...>",
		Short: "Rate a snippet's long-term importance (0-10)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := openStore()
			if err != nil {
				return err
			}

			llm, err := newClient(cfg)
			if err != nil {
				return err
			}

			snippet := strings.Join(args, " ")
			verdict := scorer.New(llm).Score(cmd.Context(), snippet, scorer.SnippetContext{
				FrequencyCount:        mentions,
				DaysSinceFirstMention: ageDays,
			})

			fmt.Printf("Score: %d/%d\n", verdict.Total, scorer.MaxTotal)
			fmt.Printf("  frequency %d, recency %d, explicit %d, relevance %d\n",
				verdict.Frequency, verdict.Recency, verdict.Explicit, verdict.Relevance)
			fmt.Printf("Reasoning: %s\n", verdict.Reasoning)
			fmt.Printf("Retention: %s\n", verdict.Retention)
			return nil
		},
	}

	cmd.Flags().IntVar(&mentions, "mentions", 0, "prior mention count for the topic")
	cmd.Flags().IntVar(&ageDays, "age-days", 0, "days since the topic was first mentioned")
	return cmd
}
