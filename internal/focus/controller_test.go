package focus

import (
	"context"
	"errors"
	"testing"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	schedules []domain.Schedule
	err       error
	reads     int
}

func (m *memSource) AllSchedules(context.Context) ([]domain.Schedule, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	return m.schedules, nil
}

type recordingActions struct {
	edited  []string
	toggled []string
	source  *memSource
}

func (r *recordingActions) EditRequested(s domain.Schedule) {
	r.edited = append(r.edited, s.ID)
}

func (r *recordingActions) ToggleComplete(id string) {
	r.toggled = append(r.toggled, id)
	if r.source == nil {
		return
	}
	for i := range r.source.schedules {
		if r.source.schedules[i].ID == id {
			r.source.schedules[i].Completed = !r.source.schedules[i].Completed
		}
	}
}

func chain() []domain.Schedule {
	return []domain.Schedule{
		{ID: "A", Title: "Plan", Date: "2026-03-02"},
		{ID: "B", Title: "Design", Date: "2026-03-03", Relations: []domain.Relation{{TargetID: "A", Type: domain.RelationParent}}},
		{ID: "C", Title: "Build", Date: "2026-03-04", Relations: []domain.Relation{
			{TargetID: "B", Type: domain.RelationParent},
			{TargetID: "A", Type: domain.RelationParallel},
		}},
	}
}

func newTestController(src *memSource) (*Controller, *recordingActions) {
	actions := &recordingActions{source: src}
	return New(src, viewport.New(), actions, Options{}), actions
}

func TestController_RefreshPicksFirstSchedule(t *testing.T) {
	src := &memSource{schedules: chain()}
	c, _ := newTestController(src)
	assert.False(t, c.HasFocus())

	c.Refresh(context.Background())

	assert.Equal(t, "A", c.FocusID())
	assert.Len(t, c.Graph().Nodes, 3)
}

func TestController_RefreshOnEmptyStore(t *testing.T) {
	c, _ := newTestController(&memSource{})

	c.Refresh(context.Background())

	assert.False(t, c.HasFocus())
	assert.True(t, c.Graph().Empty())
}

func TestController_SetFocusRebuildsAndResetsViewport(t *testing.T) {
	src := &memSource{schedules: chain()}
	c, _ := newTestController(src)
	ctx := context.Background()

	c.SetFocus(ctx, "A")
	vp := c.Viewport()
	vp.BeginDrag(viewport.Point{X: 1, Y: 1}, viewport.HitCanvas)
	vp.ContinueDrag(viewport.Point{X: 50, Y: 80})
	vp.Zoom(viewport.ZoomIn)
	require.NotEqual(t, domain.IdentityTransform(), vp.Transform())

	c.SetFocus(ctx, "C")

	assert.Equal(t, domain.IdentityTransform(), vp.Transform())
	assert.False(t, vp.Dragging())
	g := c.Graph()
	assert.Equal(t, "C", g.FocusID)
	n, ok := g.Node("C")
	require.True(t, ok)
	assert.True(t, n.IsFocus)
	assert.Equal(t, 0, n.Level)
	a, ok := g.Node("A")
	require.True(t, ok)
	assert.Equal(t, -2, a.Level)
}

func TestController_SetFocusUnknownGivesEmptyGraph(t *testing.T) {
	c, _ := newTestController(&memSource{schedules: chain()})

	c.SetFocus(context.Background(), "nope")

	assert.Equal(t, "nope", c.FocusID())
	assert.True(t, c.Graph().Empty())
}

func TestController_SelectFocusNodeRequestsEdit(t *testing.T) {
	c, actions := newTestController(&memSource{schedules: chain()})
	ctx := context.Background()
	c.SetFocus(ctx, "B")

	node, ok := c.Graph().Node("B")
	require.True(t, ok)
	c.SelectNode(ctx, node)

	assert.Equal(t, []string{"B"}, actions.edited)
	assert.Equal(t, "B", c.FocusID())
}

func TestController_SelectOtherNodeRefocuses(t *testing.T) {
	c, actions := newTestController(&memSource{schedules: chain()})
	ctx := context.Background()
	c.SetFocus(ctx, "B")
	c.Viewport().Zoom(viewport.ZoomOut)

	node, ok := c.Graph().Node("A")
	require.True(t, ok)
	c.SelectNode(ctx, node)

	assert.Empty(t, actions.edited)
	assert.Equal(t, "A", c.FocusID())
	assert.Equal(t, domain.IdentityTransform(), c.Viewport().Transform())
	focus, _ := c.Graph().Node("A")
	assert.True(t, focus.IsFocus)
}

func TestController_ToggleCompleteRebuilds(t *testing.T) {
	src := &memSource{schedules: chain()}
	c, actions := newTestController(src)
	ctx := context.Background()
	c.SetFocus(ctx, "B")

	node, _ := c.Graph().Node("C")
	c.ToggleComplete(ctx, node)

	assert.Equal(t, []string{"C"}, actions.toggled)
	updated, _ := c.Graph().Node("C")
	assert.True(t, updated.Completed)
	assert.Equal(t, "B", c.FocusID())
}

func TestController_RefreshKeepsFocusAndTransform(t *testing.T) {
	src := &memSource{schedules: chain()}
	c, _ := newTestController(src)
	ctx := context.Background()
	c.SetFocus(ctx, "B")
	c.Viewport().PanBy(10, 10)

	src.schedules = append(src.schedules, domain.Schedule{
		ID: "D", Title: "Ship", Date: "2026-03-05",
		Relations: []domain.Relation{{TargetID: "C", Type: domain.RelationParent}},
	})
	c.Refresh(ctx)

	assert.Equal(t, "B", c.FocusID())
	assert.Equal(t, 10.0, c.Viewport().Transform().PanX)
	d, ok := c.Graph().Node("D")
	require.True(t, ok)
	assert.Equal(t, 2, d.Level)
}

func TestController_RefreshAfterFocusDeleted(t *testing.T) {
	src := &memSource{schedules: chain()}
	c, _ := newTestController(src)
	ctx := context.Background()
	c.SetFocus(ctx, "C")
	c.Viewport().PanBy(10, 10)

	src.schedules = src.schedules[:2]
	c.Refresh(ctx)

	assert.Equal(t, "A", c.FocusID())
	assert.Equal(t, domain.IdentityTransform(), c.Viewport().Transform())
}

func TestController_StoreFailureRendersEmpty(t *testing.T) {
	src := &memSource{schedules: chain()}
	c, _ := newTestController(src)
	ctx := context.Background()
	c.SetFocus(ctx, "B")

	src.err = errors.New("disk gone")
	c.SetFocus(ctx, "A")

	assert.True(t, c.Graph().Empty())
	assert.Empty(t, c.SearchByTitle(ctx, "plan"))
}

func TestController_SearchByTitle(t *testing.T) {
	c, _ := newTestController(&memSource{schedules: chain()})
	ctx := context.Background()

	got := c.SearchByTitle(ctx, "DES")
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ID)

	got = c.SearchByTitle(ctx, "i")
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "C", got[1].ID)

	assert.Empty(t, c.SearchByTitle(ctx, "   "))
	assert.Empty(t, c.SearchByTitle(ctx, "zzz"))
}

func TestController_Neighbors(t *testing.T) {
	c, _ := newTestController(&memSource{schedules: chain()})
	c.SetFocus(context.Background(), "C")

	preds, descs, parallels := c.Neighbors()
	require.Len(t, preds, 1)
	assert.Equal(t, "B", preds[0].ID)
	assert.Empty(t, descs)
	require.Len(t, parallels, 1)
	assert.Equal(t, "A", parallels[0].ID)

	focus, ok := c.Focus()
	require.True(t, ok)
	assert.Equal(t, "Build", focus.Title)
}
