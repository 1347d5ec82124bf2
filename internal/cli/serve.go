package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/cleanup"
	"github.com/chronomem/chronomem/internal/summarize"
)

func newServeCmd() *cobra.Command {
	var cronSpec string
	var runNow bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cleanup daemon on a cron schedule",
		Long: `Start a long-running daemon that executes the cleanup batch on a cron
schedule (default from config, normally 04:00 daily).

Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}

			llm, err := newClient(cfg)
			if err != nil {
				return err
			}
			sched := cleanup.New(cfg.Cleanup, st, summarize.New(llm))

			spec := cronSpec
			if spec == "" {
				spec = cfg.Schedule.CleanupCron
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			c := cron.New()
			_, err = c.AddFunc(spec, func() {
				sched.RunAll(ctx, nil, nil)
			})
			if err != nil {
				return fmt.Errorf("invalid cron spec %q: %w", spec, err)
			}

			if runNow {
				sched.RunAll(ctx, nil, nil)
			}

			c.Start()
			defer c.Stop()

			fmt.Printf("Cleanup daemon running (schedule %q). Press Ctrl-C to stop.\n", spec)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			fmt.Println("\nStopping daemon.")
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "override the cron schedule from config")
	cmd.Flags().BoolVar(&runNow, "now", false, "run one cleanup batch immediately on startup")
	return cmd
}
