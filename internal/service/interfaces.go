package service

import (
	"context"
	"io"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/repository"
)

type ScheduleService interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	// AllSchedules returns a value snapshot of the store in store order.
	AllSchedules(ctx context.Context) ([]domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	// ToggleComplete flips the completed flag and returns the new value.
	ToggleComplete(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	AddRelation(ctx context.Context, scheduleID, targetID string, t domain.RelationType) error
	RemoveRelation(ctx context.Context, scheduleID, targetID string, t domain.RelationType) error
}

type BackupService interface {
	// SnapshotIfDue stores today's snapshot unless one already exists and
	// prunes old ones. It reports whether a snapshot was taken.
	SnapshotIfDue(ctx context.Context) (bool, error)
	List(ctx context.Context) ([]repository.Backup, error)
	// Export writes the store as a JSON array and returns the schedule count.
	Export(ctx context.Context, w io.Writer) (int, error)
	// Import replaces the store with the JSON array read from r.
	Import(ctx context.Context, r io.Reader) (int, error)
	// Restore replaces the store with the snapshot taken on date.
	Restore(ctx context.Context, date string) (int, error)
}

// Snapshotter is the slice of BackupService the schedule service needs
// after each mutation.
type Snapshotter interface {
	SnapshotIfDue(ctx context.Context) (bool, error)
}
