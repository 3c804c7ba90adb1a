package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/viewport"
)

const (
	headerHeight  = 2
	toolbarHeight = 1

	panelWidth    = 32
	panelMinWidth = 80 // terminals narrower than this hide the side panel

	panStep = 40.0
)

type graphKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Open    key.Binding
	Toggle  key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Search  key.Binding
	Refresh key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
}

var graphKeys = graphKeyMap{
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
	ZoomOut: key.NewBinding(key.WithKeys("-")),
	Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←↑↓→", "pan")),
	Right:   key.NewBinding(key.WithKeys("right", "l")),
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
}

type toolbarAction int

const (
	toolZoomIn toolbarAction = iota
	toolZoomOut
	toolReset
	toolSearch
)

// toolbarHit is the column range [start, end) of one toolbar button.
type toolbarHit struct {
	start  int
	end    int
	action toolbarAction
}

type panelLine struct {
	text  string
	style lipgloss.Style
	id    string // schedule focused when the line is clicked
}

// graphView is the explorer's home view: a toolbar, the pan/zoom canvas,
// and a side panel describing the focus.
type graphView struct {
	state      *SharedState
	selectedID string
}

func newGraphView(state *SharedState) *graphView {
	return &graphView{state: state, selectedID: state.Focus.FocusID()}
}

func (v *graphView) Init() tea.Cmd { return nil }

func (v *graphView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	case tea.MouseMsg:
		return v, v.handleMouse(msg)
	case refreshViewMsg:
		v.state.Focus.Refresh(v.state.Ctx)
		v.syncSelection()
	}
	return v, nil
}

func (v *graphView) handleKey(msg tea.KeyMsg) tea.Cmd {
	fc := v.state.Focus
	vp := fc.Viewport()
	ctx := v.state.Ctx

	switch {
	case key.Matches(msg, graphKeys.Next):
		v.cycleSelection(1)
	case key.Matches(msg, graphKeys.Prev):
		v.cycleSelection(-1)
	case key.Matches(msg, graphKeys.Open):
		if n, ok := v.selectedNode(); ok {
			fc.SelectNode(ctx, n)
			return v.afterAction()
		}
	case key.Matches(msg, graphKeys.Toggle):
		if n, ok := v.selectedNode(); ok {
			fc.ToggleComplete(ctx, n)
			return v.afterAction()
		}
	case key.Matches(msg, graphKeys.Edit):
		if n, ok := fc.Graph().Node(fc.FocusID()); ok {
			fc.SelectNode(ctx, n)
			return v.afterAction()
		}
	case key.Matches(msg, graphKeys.Delete):
		if s, ok := fc.Focus(); ok {
			return startDeleteWizard(v.state, s)
		}
	case key.Matches(msg, graphKeys.Search):
		return pushView(newSearchView(v.state))
	case key.Matches(msg, graphKeys.Refresh):
		fc.Refresh(ctx)
		v.syncSelection()
	case key.Matches(msg, graphKeys.ZoomIn):
		vp.Zoom(viewport.ZoomIn)
	case key.Matches(msg, graphKeys.ZoomOut):
		vp.Zoom(viewport.ZoomOut)
	case key.Matches(msg, graphKeys.Reset):
		vp.Reset()
	case key.Matches(msg, graphKeys.Left):
		vp.PanBy(-panStep, 0)
	case key.Matches(msg, graphKeys.Right):
		vp.PanBy(panStep, 0)
	case key.Matches(msg, graphKeys.Up):
		vp.PanBy(0, -panStep)
	case key.Matches(msg, graphKeys.Down):
		vp.PanBy(0, panStep)
	}
	return nil
}

// handleMouse receives coordinates relative to the top of the view.
func (v *graphView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	vp := v.state.Focus.Viewport()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		vp.ZoomWheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		vp.ZoomWheel(1)
	case msg.Action == tea.MouseActionRelease:
		vp.EndDrag()
	case msg.Action == tea.MouseActionMotion:
		vp.ContinueDrag(cellToPixel(msg.X, msg.Y-toolbarHeight))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return v.press(msg.X, msg.Y)
	}
	return nil
}

func (v *graphView) press(x, y int) tea.Cmd {
	fc := v.state.Focus
	vp := fc.Viewport()
	ctx := v.state.Ctx

	if y < 0 || y >= v.state.ContentHeight() {
		return nil
	}

	if y < toolbarHeight {
		_, hits := v.toolbar()
		for _, hit := range hits {
			if x >= hit.start && x < hit.end {
				return v.runTool(hit.action)
			}
		}
		vp.BeginDrag(cellToPixel(x, y), viewport.HitControl)
		return nil
	}

	if x >= v.canvasWidth() {
		lines := v.panel()
		if i := y - toolbarHeight; i < len(lines) && lines[i].id != "" {
			fc.SetFocus(ctx, lines[i].id)
			v.syncSelection()
		}
		return nil
	}

	row := y - toolbarHeight
	if cd, ok := hitCard(placeCards(fc.Graph(), vp), x, row); ok {
		v.selectedID = cd.node.ScheduleID
		fc.SelectNode(ctx, cd.node)
		return v.afterAction()
	}
	vp.BeginDrag(cellToPixel(x, row), viewport.HitCanvas)
	return nil
}

func (v *graphView) runTool(action toolbarAction) tea.Cmd {
	vp := v.state.Focus.Viewport()
	switch action {
	case toolZoomIn:
		vp.Zoom(viewport.ZoomIn)
	case toolZoomOut:
		vp.Zoom(viewport.ZoomOut)
	case toolReset:
		vp.Reset()
	case toolSearch:
		return pushView(newSearchView(v.state))
	}
	return nil
}

// afterAction turns what the focus controller asked of its actions into
// commands: an edit form for the focus node, or an error in the status bar.
func (v *graphView) afterAction() tea.Cmd {
	v.syncSelection()
	actions := v.state.actions
	var cmds []tea.Cmd
	if err := actions.takeErr(); err != nil {
		cmds = append(cmds, statusCmd(errorLine(err)))
	}
	if s, ok := actions.takeEdit(); ok {
		cmds = append(cmds, startEditWizard(v.state, s))
	}
	return tea.Batch(cmds...)
}

func (v *graphView) selectedNode() (domain.GraphNode, bool) {
	return v.state.Focus.Graph().Node(v.selectedID)
}

// syncSelection keeps the selection on a node that still exists, falling
// back to the focus.
func (v *graphView) syncSelection() {
	fc := v.state.Focus
	if _, ok := fc.Graph().Node(v.selectedID); !ok {
		v.selectedID = fc.FocusID()
	}
}

func (v *graphView) cycleSelection(step int) {
	nodes := v.state.Focus.Graph().Nodes
	if len(nodes) == 0 {
		return
	}
	i := 0
	for j, n := range nodes {
		if n.ScheduleID == v.selectedID {
			i = j
			break
		}
	}
	i = (i + step + len(nodes)) % len(nodes)
	v.selectedID = nodes[i].ScheduleID
}

func (v *graphView) canvasWidth() int {
	if v.state.Width < panelMinWidth {
		return max(v.state.Width, 1)
	}
	return v.state.Width - panelWidth
}

func (v *graphView) toolbar() (string, []toolbarHit) {
	buttons := []struct {
		label  string
		action toolbarAction
	}{
		{"[ + ]", toolZoomIn},
		{"[ - ]", toolZoomOut},
		{"[ reset ]", toolReset},
		{"[ search ]", toolSearch},
	}

	var b strings.Builder
	var hits []toolbarHit
	col := 0
	for _, btn := range buttons {
		if col > 0 {
			b.WriteString(" ")
			col++
		}
		w := len([]rune(btn.label))
		hits = append(hits, toolbarHit{start: col, end: col + w, action: btn.action})
		b.WriteString(formatter.StyleHeader.Render(btn.label))
		col += w
	}

	t := v.state.Focus.Viewport().Transform()
	b.WriteString(formatter.Dim(fmt.Sprintf("   zoom %d%%  pan %.0f,%.0f", int(t.Scale*100+0.5), t.PanX, t.PanY)))
	return b.String(), hits
}

// panel lists the focus schedule and its one-hop neighbors. Neighbor
// lines carry the id to focus when clicked.
func (v *graphView) panel() []panelLine {
	fc := v.state.Focus
	s, ok := fc.Focus()
	if !ok {
		return nil
	}
	week := v.state.App.Week

	lines := []panelLine{
		{text: s.Title, style: formatter.StyleBold},
		{text: s.When(), style: formatter.StyleFg},
	}
	if tag := week.WeekTag(s.Date); tag != "" {
		lines = append(lines, panelLine{text: "Week " + tag, style: formatter.StylePurple})
	}
	if s.Owner != "" {
		lines = append(lines, panelLine{text: "Owner " + s.Owner, style: formatter.StyleDim})
	}
	status := panelLine{text: "○ Open", style: formatter.StyleYellow}
	if s.Completed {
		status = panelLine{text: "✔ Done", style: formatter.StyleGreen}
	}
	lines = append(lines, status)

	preds, descs, parallels := fc.Neighbors()
	section := func(title, mark string, list []domain.Schedule, style lipgloss.Style) {
		lines = append(lines, panelLine{style: formatter.StyleDim}, panelLine{text: title, style: formatter.StyleHeader})
		if len(list) == 0 {
			lines = append(lines, panelLine{text: "  none", style: formatter.StyleDim})
			return
		}
		for _, n := range list {
			lines = append(lines, panelLine{text: "  " + mark + " " + n.Title, style: style, id: n.ID})
		}
	}
	section("Predecessors", "▲", preds, formatter.RelationColor(domain.RelationParent))
	section("Descendants", "▼", descs, formatter.StyleFg)
	section("Parallel", "═", parallels, formatter.RelationColor(domain.RelationParallel))
	return lines
}

func (v *graphView) View() string {
	h := v.state.ContentHeight()
	fc := v.state.Focus
	if !fc.HasFocus() {
		return padLines(formatter.Dim("  No schedules yet. Add one with: cstlendar schedule add --title ... --date YYYY-MM-DD"), h)
	}

	toolbar, _ := v.toolbar()
	canvasH := max(h-toolbarHeight, 1)
	canvasW := v.canvasWidth()
	body, _ := renderCanvas(fc.Graph(), fc.Viewport(), canvasW, canvasH, v.selectedID, v.state.App.Week)

	if canvasW < v.state.Width {
		rows := strings.Split(body, "\n")
		lines := v.panel()
		inner := panelWidth - 2
		sep := formatter.Dim("│")
		for i := range rows {
			text := ""
			if i < len(lines) {
				pl := lines[i]
				text = pl.style.Render(fitRunes(pl.text, inner, ' '))
			}
			rows[i] += sep + " " + text
		}
		body = strings.Join(rows, "\n")
	}

	return toolbar + "\n" + body
}

func (v *graphView) ID() ViewID    { return ViewGraph }
func (v *graphView) Title() string { return "Graph" }

func (v *graphView) ShortHelp() []key.Binding {
	return []key.Binding{
		graphKeys.Next, graphKeys.Open, graphKeys.Toggle, graphKeys.Edit,
		graphKeys.Search, graphKeys.ZoomIn, graphKeys.Reset, graphKeys.Left,
	}
}

// padLines pads s with blank lines to exactly h lines.
func padLines(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n < h {
		s += strings.Repeat("\n", h-n)
	}
	return s
}
