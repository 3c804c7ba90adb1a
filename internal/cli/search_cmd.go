package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/focus"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find schedules by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := app.Schedules.AllSchedules(context.Background())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSearchResults(query, focus.MatchTitle(all, query)))
			return nil
		},
	}
}
