package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/domain"
)

// dateInput returns a huh.Input for a required YYYY-MM-DD date.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2026-03-02").
		Value(value).
		Validate(validateDate)
}

// editScheduleForm edits a schedule's title, date, time and owner in one group.
func editScheduleForm(f *scheduleFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(validateRequired),
			dateInput("Date (YYYY-MM-DD)", &f.Date),
			huh.NewInput().
				Title("Time (HH:MM, blank for all day)").
				Placeholder("09:30").
				Value(&f.Time).
				Validate(validateOptionalTime),
			huh.NewInput().
				Title("Owner").
				Value(&f.Owner),
		),
	).WithTheme(cstlendarHuhTheme()).WithShowHelp(false)
}

// startEditWizard pushes the edit form for s. Saving happens when the form
// completes, before the views refresh.
func startEditWizard(state *SharedState, s domain.Schedule) tea.Cmd {
	fields := fieldsFrom(s)
	form := editScheduleForm(&fields)
	return pushView(newWizardView(state, "Edit", form, func() tea.Cmd {
		return statusCmd(saveScheduleEdit(state, s.ID, fields))
	}))
}

// saveScheduleEdit applies fields to the stored schedule and returns the
// status line to show.
func saveScheduleEdit(state *SharedState, id string, fields scheduleFields) string {
	svc := state.App.Schedules
	s, err := svc.GetByID(state.Ctx, id)
	if err != nil {
		return errorLine(err)
	}
	fields.applyTo(s)
	if err := svc.Update(state.Ctx, s); err != nil {
		return errorLine(err)
	}
	return formatter.StyleGreen.Render("✔") + " Saved " + formatter.Bold(s.Title)
}

// startDeleteWizard asks for confirmation, then deletes s.
func startDeleteWizard(state *SharedState, s domain.Schedule) tea.Cmd {
	var confirmed bool
	form := wizardConfirm("Delete "+s.Title+"?", &confirmed)
	return pushView(newWizardView(state, "Delete", form, func() tea.Cmd {
		if !confirmed {
			return statusCmd(formatter.Dim("Cancelled."))
		}
		if err := state.App.Schedules.Delete(state.Ctx, s.ID); err != nil {
			return statusCmd(errorLine(err))
		}
		return statusCmd(formatter.StyleGreen.Render("✔") + " Deleted " + formatter.Bold(s.Title))
	}))
}
