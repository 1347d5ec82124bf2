package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronomem/chronomem/internal/journal"
)

func newInitCmd() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "init <user>",
		Short: "Create a memory root for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}

			j := journal.New(st)
			created, err := j.CreateUser(args[0], displayName)
			if err != nil {
				return err
			}
			if !created {
				fmt.Printf("User %s already has a memory root at %s\n", args[0], st.UserDir(args[0]))
				return nil
			}
			fmt.Printf("Created memory root for %s at %s\n", args[0], st.UserDir(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "display name used in the master index")
	return cmd
}
