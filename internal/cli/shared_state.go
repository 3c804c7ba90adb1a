package cli

import (
	"context"

	"github.com/cstcaptive/cstlendar/internal/focus"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Ctx bounds store calls made from views.
	Ctx context.Context

	// Focus owns the focused schedule, its graph, and the viewport.
	Focus   *focus.Controller
	actions *tuiActions

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - headerHeight - 2
	if h < 1 {
		return 1
	}
	return h
}
