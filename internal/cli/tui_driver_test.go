package cli

import (
	"context"
	"testing"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/teatest"
)

// Terminal geometry used by NewTestDriver. With the side panel the canvas
// spans columns [0, 88); canvas row r is terminal row r+3.
const (
	testWidth  = 120
	testHeight = 40
)

// TestDriver wraps teatest.Driver with explorer-specific inspection methods.
// It provides access to appModel internals (view stack, shared state,
// focus controller) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App, focused on the
// first schedule in the store.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(context.Background(), app, "")
	d := teatest.New(t, m, teatest.WithSize(testWidth, testHeight))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// canvasToTerminal converts a canvas cell to the terminal cell a mouse
// event would report.
func canvasToTerminal(col, row int) (int, int) {
	return col, row + headerHeight + toolbarHeight
}

// ClickCanvas clicks the canvas cell (col, row).
func (d *TestDriver) ClickCanvas(col, row int) {
	d.T.Helper()
	x, y := canvasToTerminal(col, row)
	d.Click(x, y)
}

// ClickNode clicks the center of the card for scheduleID.
func (d *TestDriver) ClickNode(scheduleID string) {
	d.T.Helper()
	fc := d.State().Focus
	for _, cd := range placeCards(fc.Graph(), fc.Viewport()) {
		if cd.node.ScheduleID == scheduleID {
			col, row := cd.center()
			d.ClickCanvas(col, row)
			return
		}
	}
	d.T.Fatalf("no card for %s", scheduleID)
}

// ── inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// FocusID returns the focused schedule id.
func (d *TestDriver) FocusID() string {
	return d.State().Focus.FocusID()
}

// Transform returns the viewport's current pan and scale.
func (d *TestDriver) Transform() domain.ViewTransform {
	return d.State().Focus.Viewport().Transform()
}

// Status returns the transient status line.
func (d *TestDriver) Status() string {
	return stripANSI(d.appModel().status)
}

// SelectedID returns the keyboard selection of the graph view.
func (d *TestDriver) SelectedID() string {
	for _, v := range d.appModel().viewStack {
		if g, ok := v.(*graphView); ok {
			return g.selectedID
		}
	}
	return ""
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
