package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chronomem/chronomem/internal/config"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive first-time configuration",
		Long:  "Configure the completion provider, API key, and data directory for chronomem.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			fmt.Println("Welcome to chronomem! Let's configure your memory store.")
			fmt.Println()

			cfg := config.Default()

			fmt.Println("Which completion provider should summarize and score memories?")
			fmt.Println("  [1] Claude (Anthropic)")
			fmt.Println("  [2] OpenAI (GPT-4o)")
			fmt.Print("> ")

			switch strings.TrimSpace(readLineBuf(reader)) {
			case "2":
				cfg.Provider = "openai"
				cfg.Model.Name = "gpt-4o"
				if key := readKey("OpenAI", "OPENAI_API_KEY"); key != "" {
					cfg.Keys.OpenAI = key
				}
			default:
				cfg.Provider = "anthropic"
				if key := readKey("Anthropic", "ANTHROPIC_API_KEY"); key != "" {
					cfg.Keys.Anthropic = key
				}
			}

			fmt.Println()
			fmt.Printf("Data directory (press Enter for %s): ", cfg.DataDir)
			if dir := readLineBuf(reader); dir != "" {
				cfg.DataDir = dir
			}

			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			path, _ := config.Path()
			fmt.Printf("\nConfiguration saved to %s\n", path)
			fmt.Println("Run `chronomem init <user>` to create a memory root.")
			return nil
		},
	}
}

// readKey prompts for an API key without echoing it. A non-terminal stdin
// falls back to plain line reading.
func readKey(provider, envVar string) string {
	fmt.Printf("Enter your %s API key (or press Enter to set %s later): ", provider, envVar)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		key, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(key))
	}

	return readLineBuf(bufio.NewReader(os.Stdin))
}

// readLineBuf reads a trimmed line from a bufio.Reader.
func readLineBuf(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
