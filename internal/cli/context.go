package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/loader"
)

func newContextCmd() *cobra.Command {
	var showStats bool

	cmd := &cobra.Command{
		Use:   "context <user> [query...]",
		Short: "Assemble the memory context for a query",
		Long: `Assemble the token-budgeted memory context for a user. The master index,
preferences, and the last few daily logs are always included; with a query,
relevant historical digests are selected on top.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}

			llm, err := newClient(cfg)
			if err != nil {
				return err
			}

			l := loader.New(cfg.Context, st, llm)
			loaded, err := l.Load(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			if showStats {
				fmt.Print(loaded.Stats())
				return nil
			}
			fmt.Println(loaded.Format())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "print the load breakdown instead of the context")
	return cmd
}
