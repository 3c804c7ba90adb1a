package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/repository"
	"github.com/google/uuid"
)

type scheduleService struct {
	schedules repository.ScheduleRepo
	uow       db.UnitOfWork
	snapshots Snapshotter
	observer  UseCaseObserver
}

// NewScheduleService builds the schedule use cases. snapshots may be nil,
// in which case mutations do not trigger backups.
func NewScheduleService(
	schedules repository.ScheduleRepo,
	uow db.UnitOfWork,
	snapshots Snapshotter,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		schedules: schedules,
		uow:       uow,
		snapshots: snapshots,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Create(ctx context.Context, sc *domain.Schedule) (err error) {
	defer s.observe(ctx, "create-schedule", time.Now().UTC(), map[string]any{"title": sc.Title}, &err)

	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	if sc.Time == "" {
		sc.AllDay = true
	}
	if err = prepare(sc); err != nil {
		return err
	}
	now := time.Now().UTC()
	sc.CreatedAt = now
	sc.UpdatedAt = now
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteScheduleRepo(tx).Create(ctx, sc)
	})
	if err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *scheduleService) List(ctx context.Context) ([]*domain.Schedule, error) {
	return s.schedules.List(ctx)
}

func (s *scheduleService) AllSchedules(ctx context.Context) ([]domain.Schedule, error) {
	list, err := s.schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Schedule, 0, len(list))
	for _, sc := range list {
		out = append(out, *sc)
	}
	return out, nil
}

func (s *scheduleService) Update(ctx context.Context, sc *domain.Schedule) (err error) {
	defer s.observe(ctx, "update-schedule", time.Now().UTC(), map[string]any{"id": sc.ID}, &err)

	if sc.Time == "" {
		sc.AllDay = true
	}
	if err = prepare(sc); err != nil {
		return err
	}
	sc.UpdatedAt = time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteScheduleRepo(tx).Update(ctx, sc)
	})
	if err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

func (s *scheduleService) ToggleComplete(ctx context.Context, id string) (completed bool, err error) {
	defer s.observe(ctx, "toggle-complete", time.Now().UTC(), map[string]any{"id": id}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteScheduleRepo(tx)
		sc, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		completed = !sc.Completed
		return repo.SetCompleted(ctx, id, completed)
	})
	if err != nil {
		return false, err
	}
	s.afterMutation(ctx)
	return completed, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-schedule", time.Now().UTC(), map[string]any{"id": id}, &err)

	if err = s.schedules.Delete(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

func (s *scheduleService) AddRelation(ctx context.Context, scheduleID, targetID string, t domain.RelationType) (err error) {
	fields := map[string]any{"id": scheduleID, "target": targetID, "type": string(t)}
	defer s.observe(ctx, "add-relation", time.Now().UTC(), fields, &err)

	if !t.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRelationType, t)
	}
	if scheduleID == targetID {
		return fmt.Errorf("%s: %w", scheduleID, domain.ErrSelfRelation)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteScheduleRepo(tx)
		if _, err := repo.GetByID(ctx, scheduleID); err != nil {
			return err
		}
		if _, err := repo.GetByID(ctx, targetID); err != nil {
			return fmt.Errorf("relation target: %w", err)
		}
		return repo.AddRelation(ctx, scheduleID, domain.Relation{TargetID: targetID, Type: t})
	})
	if err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// RemoveRelation does not require the target to exist, so dangling
// relations left by deleted schedules can be cleaned up.
func (s *scheduleService) RemoveRelation(ctx context.Context, scheduleID, targetID string, t domain.RelationType) (err error) {
	fields := map[string]any{"id": scheduleID, "target": targetID, "type": string(t)}
	defer s.observe(ctx, "remove-relation", time.Now().UTC(), fields, &err)

	if err = s.schedules.RemoveRelation(ctx, scheduleID, targetID, t); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// afterMutation takes the daily snapshot. A failed snapshot does not undo
// the mutation; it is reported to the observer only.
func (s *scheduleService) afterMutation(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	startedAt := time.Now().UTC()
	taken, err := s.snapshots.SnapshotIfDue(ctx)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "daily-snapshot",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"taken": taken},
	})
}

func (s *scheduleService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, errp *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *errp == nil,
		Err:       *errp,
		Fields:    fields,
	})
}

// prepare normalizes relations and validates sc before it is written.
func prepare(sc *domain.Schedule) error {
	if err := normalizeRelations(sc); err != nil {
		return err
	}
	for _, r := range sc.Relations {
		if r.TargetID == sc.ID {
			return fmt.Errorf("%s: %w", sc.ID, domain.ErrSelfRelation)
		}
	}
	return sc.Validate()
}

// normalizeRelations canonicalizes relation type spelling and drops exact
// duplicates, keeping the first occurrence.
func normalizeRelations(sc *domain.Schedule) error {
	if len(sc.Relations) == 0 {
		return nil
	}
	seen := make(map[domain.Relation]bool, len(sc.Relations))
	out := sc.Relations[:0]
	for _, r := range sc.Relations {
		t, err := domain.ParseRelationType(string(r.Type))
		if err != nil {
			return err
		}
		r.Type = t
		r.TargetID = strings.TrimSpace(r.TargetID)
		if r.TargetID == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sc.Relations = out
	return nil
}
