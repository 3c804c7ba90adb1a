package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cstcaptive/cstlendar/internal/cli"
	"github.com/cstcaptive/cstlendar/internal/config"
	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/repository"
	"github.com/cstcaptive/cstlendar/internal/service"
	"github.com/cstcaptive/cstlendar/internal/watch"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := cfg.OpenLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	backupRepo := repository.NewSQLiteBackupRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	observer := service.NewLogUseCaseObserver(logger)
	backupSvc := service.NewBackupService(scheduleRepo, backupRepo, uow, cfg.Backup.Keep, nil, observer)
	scheduleSvc := service.NewScheduleService(scheduleRepo, uow, backupSvc, observer)

	app := &cli.App{
		Schedules: scheduleSvc,
		Backups:   backupSvc,
		MaxNodes:  cfg.Graph.MaxNodes,
		Layout:    cfg.LayoutMode(),
		Week:      cfg.Week,
		Logger:    logger,
	}

	// Detect interactive terminal for the explorer entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	if cfg.DBPath != db.MemoryPath {
		app.StoreChanges = func(ctx context.Context) <-chan struct{} {
			return watchStore(ctx, cfg.DBPath, logger)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// watchStore reports writes to the store by other processes until ctx is
// done. If the watcher cannot start, the explorer runs without live refresh.
func watchStore(ctx context.Context, path string, logger *slog.Logger) <-chan struct{} {
	w, err := watch.NewStoreWatcher(watch.Config{DBPath: path, Logger: logger})
	if err != nil {
		logger.Warn("live refresh disabled", "error", err)
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	go func() {
		<-ctx.Done()
		w.Close()
	}()
	go w.Run(ctx)
	return w.Changes()
}
