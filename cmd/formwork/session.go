package main

import (
	"context"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage the file sessions of a project",
}

var listSessionsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := fileSessions(cmd, nil)
		if err != nil {
			return err
		}
		return cli.ListSessions(context.Background(), store, os.Stdout)
	},
}

var inspectSessionCmd = &cobra.Command{
	Use:   "inspect <form> <session>",
	Short: "Print the answers of a session",
	Long: `Prints the stored answers of a session as JSON. Answers whose field name
matches a --redact pattern are masked.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		redact, _ := cmd.Flags().GetStringSlice("redact")
		store, err := fileSessions(cmd, redact)
		if err != nil {
			return err
		}
		return cli.InspectSession(context.Background(), store, args[0], args[1], os.Stdout)
	},
}

var removeSessionCmd = &cobra.Command{
	Use:     "rm <form> <session>...",
	Aliases: []string{"delete"},
	Short:   "Delete sessions of a form",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := fileSessions(cmd, nil)
		if err != nil {
			return err
		}
		return cli.RemoveSessions(context.Background(), store, args[0], args[1:], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(listSessionsCmd)
	sessionCmd.AddCommand(inspectSessionCmd)
	sessionCmd.AddCommand(removeSessionCmd)
	inspectSessionCmd.Flags().StringSlice("redact", nil, "Regular expressions of field names to mask")
}
