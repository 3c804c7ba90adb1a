package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// refreshViewMsg asks every view on the stack to reload from the store.
type refreshViewMsg struct{}

// storeChangedMsg is sent by the store watcher when another process
// writes the database.
type storeChangedMsg struct{}

// statusMsg carries a one-line message shown in the status bar until the
// next key press.
type statusMsg struct {
	text string
}

// quitMsg signals the app to quit.
type quitMsg struct{}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func refreshView() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}

// statusCmd returns a tea.Cmd that shows text in the status bar.
func statusCmd(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg { return statusMsg{text: text} }
}

// errorLine formats an error for the status bar.
func errorLine(err error) string {
	return formatter.StyleRed.Render("✖ " + err.Error())
}

// wizardCompleteOutput returns a wizardCompleteMsg that displays a message string.
func wizardCompleteOutput(msg string) tea.Msg {
	return wizardCompleteMsg{nextCmd: statusCmd(msg)}
}

// wizardCompleteError returns a wizardCompleteMsg that displays a formatted error.
func wizardCompleteError(err error) tea.Msg {
	return wizardCompleteMsg{nextCmd: statusCmd(errorLine(err))}
}
