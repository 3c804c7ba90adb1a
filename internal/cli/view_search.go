package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/domain"
)

// searchResultsTop is the view row of the first result line.
const searchResultsTop = 2

// searchView filters schedules by title as the user types. Choosing a
// result makes it the focus and returns to the graph.
type searchView struct {
	state   *SharedState
	input   textinput.Model
	results []domain.Schedule
	cursor  int
}

func newSearchView(state *SharedState) *searchView {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "title"
	ti.CharLimit = 120
	ti.Focus()
	return &searchView{state: state, input: ti}
}

func (v *searchView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *searchView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return v, popView()
		case tea.KeyEnter:
			return v, v.choose(v.cursor)
		case tea.KeyUp:
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil
		case tea.KeyDown:
			if v.cursor < len(v.results)-1 {
				v.cursor++
			}
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		v.results = v.state.Focus.SearchByTitle(v.state.Ctx, v.input.Value())
		if v.cursor >= len(v.results) {
			v.cursor = max(len(v.results)-1, 0)
		}
		return v, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i := msg.Y - searchResultsTop; i >= 0 && i < len(v.results) {
				return v, v.choose(i)
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *searchView) choose(i int) tea.Cmd {
	if i < 0 || i >= len(v.results) {
		return nil
	}
	v.state.Focus.SetFocus(v.state.Ctx, v.results[i].ID)
	return tea.Batch(popView(), refreshView())
}

func (v *searchView) View() string {
	var b strings.Builder
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	query := strings.TrimSpace(v.input.Value())
	switch {
	case query == "":
		b.WriteString(formatter.Dim("  Type part of a title."))
	case len(v.results) == 0:
		b.WriteString(formatter.Dim(fmt.Sprintf("  No schedules match %q.", query)))
	default:
		limit := max(v.state.ContentHeight()-searchResultsTop, 1)
		for i, s := range v.results {
			if i >= limit {
				break
			}
			line := fmt.Sprintf("  %s  %s", s.Title, formatter.Dim(s.When()))
			if i == v.cursor {
				line = formatter.StyleHeader.Render("▸ "+s.Title) + "  " + formatter.Dim(s.When())
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (v *searchView) ID() ViewID    { return ViewSearch }
func (v *searchView) Title() string { return "Search" }

func (v *searchView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "move")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}
