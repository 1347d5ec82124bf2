package cli

import (
	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/journal"
	"github.com/chronomem/chronomem/internal/loader"
	"github.com/chronomem/chronomem/internal/mcp"
	"github.com/chronomem/chronomem/internal/scorer"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the memory engine over MCP on stdio",
		Long: `Expose append_turn, get_context, score_snippet, and memory_stats as MCP
tools over stdio, for agent frontends that speak the Model Context Protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}

			llm, err := newClient(cfg)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(cfg, st,
				journal.New(st),
				loader.New(cfg.Context, st, llm),
				scorer.New(llm),
			)
			return srv.Serve(version)
		},
	}
}
