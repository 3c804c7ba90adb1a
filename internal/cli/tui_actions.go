package cli

import (
	"context"
	"log/slog"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/focus"
	"github.com/cstcaptive/cstlendar/internal/service"
)

// tuiActions is the explorer's focus.Actions. The controller calls it
// synchronously from inside Update, so it records what happened and the
// view turns that into commands afterwards.
type tuiActions struct {
	ctx       context.Context
	schedules service.ScheduleService
	logger    *slog.Logger

	pendingEdit *domain.Schedule
	lastErr     error
}

var _ focus.Actions = (*tuiActions)(nil)

func newTUIActions(ctx context.Context, schedules service.ScheduleService, logger *slog.Logger) *tuiActions {
	return &tuiActions{ctx: ctx, schedules: schedules, logger: logger}
}

func (a *tuiActions) EditRequested(s domain.Schedule) {
	a.pendingEdit = &s
}

func (a *tuiActions) ToggleComplete(scheduleID string) {
	if _, err := a.schedules.ToggleComplete(a.ctx, scheduleID); err != nil {
		a.logger.Warn("toggle complete failed", "schedule_id", scheduleID, "error", err)
		a.lastErr = err
	}
}

// takeEdit returns and clears the schedule the user asked to edit.
func (a *tuiActions) takeEdit() (domain.Schedule, bool) {
	if a.pendingEdit == nil {
		return domain.Schedule{}, false
	}
	s := *a.pendingEdit
	a.pendingEdit = nil
	return s, true
}

// takeErr returns and clears the last action error.
func (a *tuiActions) takeErr() error {
	err := a.lastErr
	a.lastErr = nil
	return err
}
