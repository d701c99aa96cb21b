package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the form definitions for consistency",
	Long: `Builds every definition in the directory and reports broken edges, unknown
conditions, sections and lists, and invalid components.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if len(args) > 0 {
			dir = args[0]
		}
		logger, err := loggerFor(cmd)
		if err != nil {
			return err
		}

		eng := formwork.New(formwork.WithLogger(logger))
		if err := eng.LoadAll(context.Background(), file.NewLoader(dir)); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(os.Stdout, "%d form(s) valid: %v\n", len(eng.Forms()), eng.Forms())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
