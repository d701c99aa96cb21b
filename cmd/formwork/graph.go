package main

import (
	"context"
	"fmt"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the page graph of a form",
	Long: `Outputs a Mermaid diagram (graph TD) of the pages of a form and the edges
between them. With --session the route taken by a stored session is highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		store, err := fileSessions(cmd, nil)
		if err != nil {
			return err
		}
		eng, id, err := cli.LoadModel(args[0], formwork.WithStore(store))
		if err != nil {
			return err
		}
		m, err := eng.Model(id)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			state, err := eng.State(context.Background(), id, sessionID)
			if err != nil {
				return err
			}
			route := graph.Route(m, state)
			overlay = &graph.GraphOverlay{VisitedPages: route}
			if len(route) > 0 {
				overlay.CurrentPage = route[len(route)-1]
			}
		}

		fmt.Print(graph.GenerateMermaid(m, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the route of this file session")
}
