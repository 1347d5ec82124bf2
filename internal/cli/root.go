// Package cli defines the Cobra command tree for the chronomem CLI.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/adapter"
	"github.com/chronomem/chronomem/internal/config"
	"github.com/chronomem/chronomem/internal/store"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chronomem",
	Short: "Hierarchical, self-pruning long-term memory for conversational agents",
	Long: `Chronomem keeps a tiered, file-based memory of conversations per user.

Turns are appended to daily logs; a scheduled cleanup condenses old days into
weekly, monthly, and yearly digests, archiving and compressing what it
replaces. Context for a new query is assembled from the tiers under a hard
token budget.

Run 'chronomem setup' once to configure a completion provider, then
'chronomem init <user>' to create a memory root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newInitCmd(),
		newAppendCmd(),
		newRecentCmd(),
		newContextCmd(),
		newScoreCmd(),
		newCleanupCmd(),
		newStatsCmd(),
		newResetCmd(),
		newServeCmd(),
		newWatchCmd(),
		newMCPCmd(),
		newSetupCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chronomem %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// openStore loads the config and opens the store under its data directory.
func openStore() (config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	st, err := store.New(cfg.DataDir)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, st, nil
}

// newClient builds the completion client for the configured provider.
func newClient(cfg config.Config) (adapter.Client, error) {
	key := cfg.Keys.Anthropic
	if cfg.Provider == adapter.ProviderOpenAI {
		key = cfg.Keys.OpenAI
	}
	return adapter.New(adapter.Options{
		Provider: cfg.Provider,
		Model:    cfg.Model.Name,
		APIKey:   key,
		Timeout:  time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
	})
}
