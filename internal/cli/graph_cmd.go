package cli

import (
	"context"
	"fmt"

	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(app *App) *cobra.Command {
	var maxNodes int
	var layout layoutFlag

	cmd := &cobra.Command{
		Use:   "graph ID",
		Short: "Print the relation graph around a schedule",
		Long: `Print the relation graph around a schedule.

Ancestors are reached through predecessor links and descendants through
schedules that name the current one as a predecessor. Parallel links are
not followed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			all, err := app.Schedules.AllSchedules(ctx)
			if err != nil {
				return err
			}
			limit := app.maxNodes()
			if cmd.Flags().Changed("max-nodes") {
				if maxNodes <= 0 {
					return fmt.Errorf("--max-nodes must be positive")
				}
				limit = maxNodes
			}
			g := graph.Compute(all, id, limit, app.layoutConfig(layout.value))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGraph(g, app.Week))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxNodes, "max-nodes", graph.DefaultMaxNodes, "Maximum nodes to include")
	cmd.Flags().Var(&layout, "layout", "Row assignment (default from config)")

	return cmd
}
