// Package focus tracks which schedule the explorer is centered on and keeps
// the relation graph and viewport consistent with it.
package focus

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/graph"
	"github.com/cstcaptive/cstlendar/internal/viewport"
)

// Actions receives node interactions the controller does not handle itself.
type Actions interface {
	EditRequested(s domain.Schedule)
	ToggleComplete(scheduleID string)
}

// Options configures graph construction.
type Options struct {
	MaxNodes int
	Layout   graph.LayoutConfig
	Logger   *slog.Logger
}

// Controller owns the focus id and the graph built for it. Every focus
// change resets the viewport and rebuilds before returning, so a caller
// never observes a graph for a stale focus.
type Controller struct {
	source   graph.Source
	view     *viewport.Controller
	actions  Actions
	maxNodes int
	layout   graph.LayoutConfig
	logger   *slog.Logger

	focusID string
	index   *graph.Index
	current domain.Graph
}

// New creates a controller with no focus. Call Refresh to pick the first
// schedule, or SetFocus to pick one explicitly.
func New(source graph.Source, view *viewport.Controller, actions Actions, opts Options) *Controller {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = graph.DefaultMaxNodes
	}
	if opts.Layout == (graph.LayoutConfig{}) {
		opts.Layout = graph.DefaultLayoutConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		source:   source,
		view:     view,
		actions:  actions,
		maxNodes: opts.MaxNodes,
		layout:   opts.Layout,
		logger:   opts.Logger,
		index:    graph.NewIndex(nil),
	}
}

// FocusID returns the focused schedule id, or "" before any schedule exists.
func (c *Controller) FocusID() string {
	return c.focusID
}

func (c *Controller) HasFocus() bool {
	return c.focusID != ""
}

// Graph returns the laid-out graph for the current focus.
func (c *Controller) Graph() domain.Graph {
	return c.current
}

func (c *Controller) Viewport() *viewport.Controller {
	return c.view
}

// SetFocus centers the explorer on scheduleID.
func (c *Controller) SetFocus(ctx context.Context, scheduleID string) {
	c.focusID = scheduleID
	c.view.Reset()
	c.rebuild(ctx)
}

// SelectNode opens the editor for the focus node and refocuses on any other.
func (c *Controller) SelectNode(ctx context.Context, node domain.GraphNode) {
	if node.IsFocus {
		if s, ok := c.index.Lookup(node.ScheduleID); ok && c.actions != nil {
			c.actions.EditRequested(s)
		}
		return
	}
	c.SetFocus(ctx, node.ScheduleID)
}

// ToggleComplete hands the toggle to the store collaborator and rebuilds
// so the node reflects the new state.
func (c *Controller) ToggleComplete(ctx context.Context, node domain.GraphNode) {
	if c.actions != nil {
		c.actions.ToggleComplete(node.ScheduleID)
	}
	c.rebuild(ctx)
}

// SearchByTitle returns schedules whose title contains query, ignoring
// case, in store order. A blank query matches nothing.
func (c *Controller) SearchByTitle(ctx context.Context, query string) []domain.Schedule {
	return MatchTitle(c.snapshot(ctx), query)
}

// Refresh rebuilds after a store change. If the focus no longer exists, or
// none was chosen yet, the first schedule becomes the focus and the
// viewport is reset.
func (c *Controller) Refresh(ctx context.Context) {
	snapshot := c.snapshot(ctx)
	idx := graph.NewIndex(snapshot)

	next := c.focusID
	if _, ok := idx.Lookup(next); !ok {
		next = ""
		if all := idx.All(); len(all) > 0 {
			next = all[0].ID
		}
	}
	if next != c.focusID {
		c.focusID = next
		c.view.Reset()
	}
	c.apply(idx)
}

// Focus returns the schedule currently in focus.
func (c *Controller) Focus() (domain.Schedule, bool) {
	return c.index.Lookup(c.focusID)
}

// Neighbors returns the one-hop context of the focus: predecessors,
// descendants, and PARALLEL peers.
func (c *Controller) Neighbors() (preds, descs, parallels []domain.Schedule) {
	return c.index.Predecessors(c.focusID), c.index.Descendants(c.focusID), c.index.Parallels(c.focusID)
}

func (c *Controller) rebuild(ctx context.Context) {
	c.apply(graph.NewIndex(c.snapshot(ctx)))
}

func (c *Controller) apply(idx *graph.Index) {
	c.index = idx
	g := graph.Build(idx, c.focusID, c.maxNodes)
	graph.Layout(&g, c.layout)
	c.current = g
	c.logger.Debug("graph rebuilt", "focus", c.focusID, "nodes", len(g.Nodes), "edges", len(g.Edges))
}

// snapshot reads the store, treating a failed read as an empty store.
func (c *Controller) snapshot(ctx context.Context) []domain.Schedule {
	all, err := c.source.AllSchedules(ctx)
	if err != nil {
		c.logger.Warn("schedule store unavailable", "error", err)
		return nil
	}
	return all
}

// MatchTitle filters schedules by case-insensitive title substring.
func MatchTitle(all []domain.Schedule, query string) []domain.Schedule {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []domain.Schedule
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Title), q) {
			out = append(out, s)
		}
	}
	return out
}
