package cli

import (
	"context"
	"fmt"

	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/graph"
	"github.com/spf13/cobra"
)

func newRelateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate",
		Short: "Manage relations between schedules",
		Long: `Relations are declared on the later schedule.

  parent    the target is a predecessor; it runs before this schedule
  parallel  the target is a concurrent peer; it carries no ordering`,
	}

	cmd.AddCommand(
		newRelateAddCmd(app),
		newRelateRemoveCmd(app),
		newRelateListCmd(app),
	)

	return cmd
}

func newRelateAddCmd(app *App) *cobra.Command {
	relType := newRelationTypeFlag(domain.RelationParent)

	cmd := &cobra.Command{
		Use:   "add SCHEDULE TARGET",
		Short: "Link SCHEDULE to TARGET",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			from, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			to, err := resolveScheduleID(ctx, app, args[1])
			if err != nil {
				return err
			}
			if err := app.Schedules.AddRelation(ctx, from, to, relType.value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s → %s (%s)\n",
				formatter.TruncID(from), formatter.TruncID(to), relType.value)
			return nil
		},
	}

	cmd.Flags().Var(relType, "type", "Relation type")

	return cmd
}

func newRelateRemoveCmd(app *App) *cobra.Command {
	relType := newRelationTypeFlag(domain.RelationParent)

	cmd := &cobra.Command{
		Use:     "remove SCHEDULE TARGET",
		Aliases: []string{"rm"},
		Short:   "Unlink SCHEDULE from TARGET",
		Long:    "Unlink SCHEDULE from TARGET. TARGET may be the id of a deleted schedule.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			from, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			// Dangling targets no longer resolve, so fall back to the raw id.
			to, err := resolveScheduleID(ctx, app, args[1])
			if err != nil {
				to = args[1]
			}
			if err := app.Schedules.RemoveRelation(ctx, from, to, relType.value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s → %s (%s)\n",
				formatter.TruncID(from), formatter.TruncID(to), relType.value)
			return nil
		},
	}

	cmd.Flags().Var(relType, "type", "Relation type")

	return cmd
}

func newRelateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list SCHEDULE",
		Aliases: []string{"ls"},
		Short:   "List the relations SCHEDULE declares",
		Args:    cobra.ExactArgs(1),
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
			idx := graph.NewIndex(all)
			s, ok := idx.Lookup(id)
			if !ok {
				return fmt.Errorf("schedule %s: %w", id, domain.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRelations(&s, idx.Lookup))
			return nil
		},
	}
}
