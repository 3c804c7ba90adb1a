package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/service"
	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import and restore schedules",
	}

	cmd.AddCommand(
		newBackupListCmd(app),
		newBackupExportCmd(app),
		newBackupImportCmd(app),
		newBackupRestoreCmd(app),
	)

	return cmd
}

func newBackupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List daily snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			backups, err := app.Backups.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBackupList(backups, app.now()))
			return nil
		},
	}
}

func newBackupExportCmd(app *App) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write all schedules to a JSON file",
		Long:  "Write all schedules to a JSON file. FILE defaults to schedules_backup_YYYYMMDD.json.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if stdout {
				_, err := app.Backups.Export(ctx, cmd.OutOrStdout())
				return err
			}

			path := service.ExportFileName(app.now())
			if len(args) == 1 {
				path = args[0]
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			n, err := app.Backups.Export(ctx, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d schedules to %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write JSON to stdout instead of a file")

	return cmd
}

func newBackupImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all schedules with the contents of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress := app.backupProgress(cmd, "Reading", args[0])
			data, err := os.ReadFile(args[0])
			if err != nil {
				progress.Done(err)
				return fmt.Errorf("reading import file: %w", err)
			}

			progress.Replacing()
			n, err := app.Backups.Import(context.Background(), bytes.NewReader(data))
			progress.Done(err)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d schedules from %s\n", n, args[0])
			return nil
		},
	}
}

func newBackupRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore DATE",
		Short: "Replace all schedules with the snapshot taken on DATE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress := app.backupProgress(cmd, "Restoring snapshot", args[0])
			n, err := app.Backups.Restore(context.Background(), args[0])
			progress.Done(err)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d schedules from %s\n", n, args[0])
			return nil
		},
	}
}

// backupProgress shows a spinner on stderr for interactive runs and
// returns nil otherwise.
func (a *App) backupProgress(cmd *cobra.Command, verb, source string) *formatter.BackupProgress {
	if a.IsInteractive == nil || !a.IsInteractive() {
		return nil
	}
	return formatter.StartBackupProgress(cmd.ErrOrStderr(), verb, source)
}
