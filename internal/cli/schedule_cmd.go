package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/graph"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"s"},
		Short:   "Manage schedules",
	}

	cmd.AddCommand(
		newScheduleAddCmd(app),
		newScheduleListCmd(app),
		newScheduleShowCmd(app),
		newScheduleEditCmd(app),
		newScheduleDoneCmd(app),
		newScheduleRemoveCmd(app),
	)

	return cmd
}

func newScheduleAddCmd(app *App) *cobra.Command {
	var title, date, clock, owner string
	var after, with []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := &domain.Schedule{
				Title: strings.TrimSpace(title),
				Date:  date,
				Time:  clock,
				Owner: owner,
			}
			for _, ref := range after {
				id, err := resolveScheduleID(ctx, app, ref)
				if err != nil {
					return fmt.Errorf("--after: %w", err)
				}
				s.Relations = append(s.Relations, domain.Relation{TargetID: id, Type: domain.RelationParent})
			}
			for _, ref := range with {
				id, err := resolveScheduleID(ctx, app, ref)
				if err != nil {
					return fmt.Errorf("--with: %w", err)
				}
				s.Relations = append(s.Relations, domain.Relation{TargetID: id, Type: domain.RelationParallel})
			}

			if err := app.Schedules.Create(ctx, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %s [%s]\n", s.Title, s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Schedule title")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "Time (HH:MM); omit for all day")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	cmd.Flags().StringSliceVar(&after, "after", nil, "Predecessor schedule (repeatable)")
	cmd.Flags().StringSliceVar(&with, "with", nil, "Parallel schedule (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List schedules in store order",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Schedules.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleList(list, app.Week, app.now()))
			return nil
		},
	}
}

func newScheduleShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a schedule with its predecessors, descendants and parallel peers",
		Args:  cobra.ExactArgs(1),
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

			data := formatter.ScheduleShowData{
				Schedule:     &s,
				Predecessors: idx.Predecessors(id),
				Descendants:  idx.Descendants(id),
				Parallels:    idx.Parallels(id),
				Week:         app.Week,
			}
			for _, r := range s.Relations {
				if _, ok := idx.Lookup(r.TargetID); !ok {
					data.Dangling = append(data.Dangling, r)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleShow(data))
			return nil
		},
	}
}

func newScheduleEditCmd(app *App) *cobra.Command {
	var title, date, clock, owner string
	var allDay bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a schedule's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				s.Title = strings.TrimSpace(title)
			}
			if flags.Changed("date") {
				s.Date = date
			}
			if flags.Changed("time") {
				s.Time = clock
				s.AllDay = clock == ""
			}
			if flags.Changed("owner") {
				s.Owner = owner
			}
			if flags.Changed("all-day") {
				s.AllDay = allDay
				if allDay {
					s.Time = ""
				}
			}

			if err := app.Schedules.Update(ctx, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated schedule %s\n", s.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "New time (HH:MM); empty for all day")
	cmd.Flags().StringVar(&owner, "owner", "", "New owner")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "Mark as an all-day schedule")

	return cmd
}

func newScheduleDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a schedule complete (or open again with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.Completed != undo {
				fmt.Fprintf(out, "%s is already %s\n", s.Title, completionWord(s.Completed))
				return nil
			}
			completed, err := app.Schedules.ToggleComplete(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s marked %s\n", s.Title, completionWord(completed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the schedule open again")

	return cmd
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a schedule; relations pointing at it are left dangling",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if err := app.Schedules.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed schedule %s\n", s.Title)
			return nil
		},
	}
}

func completionWord(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}
