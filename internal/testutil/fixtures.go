package testutil

import (
	"time"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/google/uuid"
)

// ScheduleOption customizes a fixture schedule.
type ScheduleOption func(*domain.Schedule)

func WithID(id string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.ID = id
	}
}

func WithDate(date string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Date = date
	}
}

func WithTime(hhmm string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Time = hhmm
		s.AllDay = false
	}
}

func WithOwner(owner string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Owner = owner
	}
}

func WithCompleted() ScheduleOption {
	return func(s *domain.Schedule) {
		s.Completed = true
	}
}

// WithPredecessors adds PARENT relations to each id, in order.
func WithPredecessors(ids ...string) ScheduleOption {
	return func(s *domain.Schedule) {
		for _, id := range ids {
			s.Relations = append(s.Relations, domain.Relation{TargetID: id, Type: domain.RelationParent})
		}
	}
}

// WithParallels adds PARALLEL relations to each id, in order.
func WithParallels(ids ...string) ScheduleOption {
	return func(s *domain.Schedule) {
		for _, id := range ids {
			s.Relations = append(s.Relations, domain.Relation{TargetID: id, Type: domain.RelationParallel})
		}
	}
}

// NewTestSchedule returns an all-day schedule dated 2026-03-02 with a fresh id.
func NewTestSchedule(title string, opts ...ScheduleOption) *domain.Schedule {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.Schedule{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      "2026-03-02",
		AllDay:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
