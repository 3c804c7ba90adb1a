// Package viewport owns the pan/zoom transform of the graph explorer and
// the single pointer drag session that moves it.
package viewport

import "github.com/cstcaptive/cstlendar/internal/domain"

const (
	MinScale = 0.2
	MaxScale = 3.0

	// ZoomStep is the factor applied per wheel notch. Zooming out divides
	// by the same factor so an in/out pair returns to the starting scale.
	ZoomStep = 1.1
)

// Point is a pointer position in screen pixels.
type Point struct {
	X float64
	Y float64
}

// HitTarget describes what lies under the pointer when it goes down.
type HitTarget int

const (
	HitCanvas HitTarget = iota
	HitNode
	HitControl
)

// ZoomDirection selects zoom in or out.
type ZoomDirection int

const (
	ZoomIn ZoomDirection = iota
	ZoomOut
)

// Controller holds a ViewTransform and at most one active drag.
// It is not safe for concurrent use; the host event loop serializes input.
type Controller struct {
	transform  domain.ViewTransform
	dragging   bool
	dragOrigin Point
}

// New returns a controller at the identity transform.
func New() *Controller {
	return &Controller{transform: domain.IdentityTransform()}
}

// Transform returns the current pan and scale.
func (c *Controller) Transform() domain.ViewTransform { return c.transform }

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool { return c.dragging }

// BeginDrag starts a drag when the pointer goes down on empty canvas.
// Presses on nodes or controls, and presses during an active drag, are ignored.
func (c *Controller) BeginDrag(p Point, target HitTarget) {
	if target != HitCanvas || c.dragging {
		return
	}
	c.dragging = true
	c.dragOrigin = Point{X: p.X - c.transform.PanX, Y: p.Y - c.transform.PanY}
}

// ContinueDrag moves the pan so the drag origin stays under the pointer.
func (c *Controller) ContinueDrag(p Point) {
	if !c.dragging {
		return
	}
	c.transform.PanX = p.X - c.dragOrigin.X
	c.transform.PanY = p.Y - c.dragOrigin.Y
}

// EndDrag finishes the drag session. Safe to call at any time.
func (c *Controller) EndDrag() {
	c.dragging = false
	c.dragOrigin = Point{}
}

// Zoom scales by ZoomStep in the given direction and clamps the result.
func (c *Controller) Zoom(dir ZoomDirection) {
	scale := c.transform.Scale
	if dir == ZoomOut {
		scale /= ZoomStep
	} else {
		scale *= ZoomStep
	}
	c.transform.Scale = clamp(scale)
}

// ZoomWheel maps a wheel delta to a zoom step: positive deltas (wheel
// pulled toward the user) zoom out, everything else zooms in.
func (c *Controller) ZoomWheel(deltaY float64) {
	if deltaY > 0 {
		c.Zoom(ZoomOut)
		return
	}
	c.Zoom(ZoomIn)
}

// PanBy shifts the view by a fixed offset, for keyboard navigation.
func (c *Controller) PanBy(dx, dy float64) {
	c.transform.PanX += dx
	c.transform.PanY += dy
}

// Reset returns to the identity transform and drops any drag.
func (c *Controller) Reset() {
	c.transform = domain.IdentityTransform()
	c.EndDrag()
}

// ToScreen maps a world coordinate through the current transform.
func (c *Controller) ToScreen(x, y float64) Point {
	t := c.transform
	return Point{X: x*t.Scale + t.PanX, Y: y*t.Scale + t.PanY}
}

func clamp(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
