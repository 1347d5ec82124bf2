package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/journal"
)

func newAppendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "append <user> <role> [text...]",
		Short: "Append one conversation turn to today's daily log",
		Long: `Append a turn to the user's daily log. The role must be "user" or
"assistant". Text is taken from the arguments, or from stdin when omitted.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}

			text := strings.Join(args[2:], " ")
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				return fmt.Errorf("no turn text given")
			}

			j := journal.New(st)
			if err := j.Append(args[0], args[1], text); err != nil {
				return err
			}
			fmt.Printf("Recorded %s turn for %s\n", args[1], args[0])
			return nil
		},
	}
}
