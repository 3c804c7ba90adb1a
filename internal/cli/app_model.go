package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/focus"
	"github.com/cstcaptive/cstlendar/internal/viewport"
)

// appModel is the root bubbletea Model for the explorer.
// It manages a view stack and a transient status line.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	// status is shown in place of key hints until the next key press.
	status string
}

// newAppModel builds the explorer centered on focusID, or on the first
// schedule in the store when focusID is empty.
func newAppModel(ctx context.Context, app *App, focusID string) appModel {
	logger := app.logger()
	actions := newTUIActions(ctx, app.Schedules, logger)
	fc := focus.New(app.Schedules, viewport.New(), actions, focus.Options{
		MaxNodes: app.maxNodes(),
		Layout:   app.layoutConfig(""),
		Logger:   logger,
	})
	if focusID != "" {
		fc.SetFocus(ctx, focusID)
	} else {
		fc.Refresh(ctx)
	}

	state := &SharedState{
		App:     app,
		Ctx:     ctx,
		Focus:   fc,
		actions: actions,
	}

	return appModel{
		state:     state,
		viewStack: []View{newGraphView(state)},
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		// Views lay out from their own top row.
		msg.Y -= headerHeight
		return m.forward(msg)

	// Navigation messages from views
	case pushViewMsg:
		m.status = ""
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case storeChangedMsg:
		return m.broadcast(refreshViewMsg{})

	case refreshViewMsg:
		// Broadcast to ALL views in the stack so the graph underneath a
		// form reloads after the form's mutation.
		return m.broadcast(msg)

	case statusMsg:
		m.status = msg.text
		return m, nil

	case wizardCompleteMsg:
		// Atomically pop the wizard view and execute the follow-up command.
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Batch(msg.nextCmd, refreshView())

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m.forward(msg)
}

func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	m.status = ""

	// If active view captures input (has its own text input), forward directly.
	// This bypasses global keybindings so views like search and forms can
	// receive all characters including 'q'.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		// Pop view stack (go back)
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if v := m.activeView(); v != nil {
		sections = append(sections, padLines(v.View(), m.state.ContentHeight()))
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("cstlendar")

	// Breadcrumb from view stack
	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	if s, ok := m.state.Focus.Focus(); ok {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(s.Title) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if m.status != "" {
		hints = append(hints, m.status)
	} else if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		if len(m.viewStack) > 1 && !viewCapturesInput(v) {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim("q: quit"))
	}

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events (bypassing global keybindings like q/Esc).
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	switch v.ID() {
	case ViewSearch, ViewForm:
		return true
	}
	return false
}
