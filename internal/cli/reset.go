package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/journal"
)

func newResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset <user>",
		Short: "Back up and reinitialize a user's memory",
		Long: `Copy the user's entire memory root to a timestamped backup directory,
then recreate it empty. The backup is never deleted automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("This resets all memory for %s (a backup is kept). Continue? [y/N] ", args[0])
				reader := bufio.NewReader(os.Stdin)
				line, _ := reader.ReadString('\n')
				if strings.ToLower(strings.TrimSpace(line)) != "y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			j := journal.New(st)
			backup, err := j.ResetUser(args[0], "")
			if err != nil {
				return err
			}
			fmt.Printf("Memory for %s reset. Backup at %s\n", args[0], backup)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
