package main

import (
	"fmt"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print an outline of a form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")

		eng, id, err := cli.LoadModel(args[0])
		if err != nil {
			return err
		}
		m, err := eng.Model(id)
		if err != nil {
			return err
		}

		out := cli.Describe(m, lang)
		if cli.IsTerminal(os.Stdout) {
			render, err := tui.NewRenderer(100)
			if err != nil {
				return err
			}
			if out, err = render(out); err != nil {
				return err
			}
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().String("lang", "en", "Language of the outline")
}
