package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/internal/presentation/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var fillCmd = &cobra.Command{
	Use:   "fill <file>",
	Short: "Fill a form interactively in the terminal",
	Long: `Walks a form page by page, prompting for each field. Answers are stored as a
file session under --dir, so an interrupted fill resumes with --session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		lang, _ := cmd.Flags().GetString("lang")
		logger, err := loggerFor(cmd)
		if err != nil {
			return err
		}

		store, err := fileSessions(cmd, nil)
		if err != nil {
			return err
		}
		eng, id, err := cli.LoadModel(args[0],
			formwork.WithStore(store),
			formwork.WithLogger(logger),
			formwork.WithLifecycleHooks(cli.DebugHooks(logger)),
		)
		if err != nil {
			return err
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		tui.PrintBanner(os.Stdout)
		fmt.Printf(">>> Session '%s'\n", sessionID)

		rows, err := cli.Fill(ctx, eng, cli.FillOptions{
			FormID:    id,
			SessionID: sessionID,
			Lang:      lang,
			Driver:    cli.NewSurveyDriver(os.Stdout),
		})
		if err != nil {
			return cli.HandleExecutionError(err)
		}

		fmt.Println("\nYour answers:")
		for _, row := range rows {
			fmt.Printf("  %s: %s\n", row.Title, row.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)
	fillCmd.Flags().String("session", "", "Resume this session")
	fillCmd.Flags().String("lang", "en", "Language of the prompts")
}
