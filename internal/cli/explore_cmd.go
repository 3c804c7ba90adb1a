package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newExploreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explore [ID]",
		Short: "Open the interactive graph explorer",
		Long: `Open the interactive graph explorer.

Click a schedule to focus it; click the focused schedule to edit it.
Drag empty space to pan and scroll to zoom.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runExplorer(cmd.Context(), app, ref)
		},
	}
}

// runExplorer runs the TUI until the user quits. When App.StoreChanges is
// set, writes from other processes refresh the graph.
func runExplorer(ctx context.Context, app *App, ref string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	focusID := ""
	if ref != "" {
		id, err := resolveScheduleID(ctx, app, ref)
		if err != nil {
			return err
		}
		focusID = id
	}

	p := tea.NewProgram(
		newAppModel(ctx, app, focusID),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if app.StoreChanges != nil {
		changes := app.StoreChanges(ctx)
		go func() {
			for range changes {
				p.Send(storeChangedMsg{})
			}
		}()
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}
