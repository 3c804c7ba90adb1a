package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/graph"
	"github.com/cstcaptive/cstlendar/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands and the explorer use.
type App struct {
	Schedules service.ScheduleService
	Backups   service.BackupService

	MaxNodes int
	Layout   domain.LayoutMode
	Week     domain.WeekConfig
	Logger   *slog.Logger

	// StoreChanges, when set, is started by the explorer and yields one
	// value per external store change.
	StoreChanges func(ctx context.Context) <-chan struct{}

	// IsInteractive reports whether stdin is a terminal. Bare "cstlendar"
	// opens the explorer only when it returns true.
	IsInteractive func() bool

	// Now is the clock used for relative dates. Nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (a *App) maxNodes() int {
	if a.MaxNodes > 0 {
		return a.MaxNodes
	}
	return graph.DefaultMaxNodes
}

func (a *App) layoutConfig(mode domain.LayoutMode) graph.LayoutConfig {
	cfg := graph.DefaultLayoutConfig()
	if mode == "" {
		mode = a.Layout
	}
	if mode != "" {
		cfg.Mode = mode
	}
	return cfg
}

// NewRootCmd creates the top-level "cstlendar" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cstlendar",
		Short:         "Schedules linked by predecessor relations, with a graph explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runExplorer(cmd.Context(), app, "")
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newScheduleCmd(app),
		newRelateCmd(app),
		newGraphCmd(app),
		newSearchCmd(app),
		newBackupCmd(app),
		newExploreCmd(app),
	)

	return root
}
