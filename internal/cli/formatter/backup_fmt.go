package formatter

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cstcaptive/cstlendar/internal/repository"
)

// FormatBackupList renders stored snapshots, newest first.
func FormatBackupList(backups []repository.Backup, now time.Time) string {
	if len(backups) == 0 {
		return Dim("No backups yet. One is taken automatically after the first change each day.")
	}
	cols := []Column{
		{Title: "DATE", Align: lipgloss.Left},
		{Title: "AGE", Align: lipgloss.Right},
		{Title: "TAKEN AT", Align: lipgloss.Left},
	}
	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		age := Dim("--")
		if t, err := time.Parse("2006-01-02", b.Date); err == nil {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			age = RelativeDateFrom(t, today)
		}
		rows = append(rows, []string{Bold(b.Date), age, Dim(b.CreatedAt)})
	}
	return RenderBox("Backups", RenderTable(cols, rows))
}
