package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formwork",
	Short: "Formwork runs declarative multi-page forms",
	Long: `Formwork loads form definitions (JSON or YAML) from a directory and serves them
page by page: rendering, validating, storing answers and choosing the next page.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the form definitions")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); empty disables logging")
	rootCmd.PersistentFlags().String("session-key", os.Getenv("FORMWORK_SESSION_KEY"), "Encrypt stored sessions with this 32 byte key (hex or base64)")
}

// fileSessions opens the file session store of --dir, optionally masking
// the answers matching redact.
func fileSessions(cmd *cobra.Command, redact []string) (ports.StateStore, error) {
	dir, _ := cmd.Flags().GetString("dir")
	key, _ := cmd.Flags().GetString("session-key")
	return cli.WrapStore(cli.FileStore(dir), key, redact)
}

// loggerFor builds the logger selected by --log-level.
func loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return cli.NewLogger(level)
}
