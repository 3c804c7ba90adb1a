package repository

import (
	"context"

	"github.com/cstcaptive/cstlendar/internal/domain"
)

type ScheduleRepo interface {
	// Create appends s at the end of the store order.
	Create(ctx context.Context, s *domain.Schedule) error
	// Insert stores s at s.Position as given.
	Insert(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	// List returns every schedule with its relations, in store order.
	List(ctx context.Context) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	AddRelation(ctx context.Context, scheduleID string, rel domain.Relation) error
	RemoveRelation(ctx context.Context, scheduleID, targetID string, t domain.RelationType) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// Backup is one dated snapshot of the whole store, serialized as JSON.
type Backup struct {
	Date      string
	CreatedAt string
	Data      []byte
}

type BackupRepo interface {
	Exists(ctx context.Context, date string) (bool, error)
	Create(ctx context.Context, b *Backup) error
	Get(ctx context.Context, date string) (*Backup, error)
	// List returns backups newest first, without their data.
	List(ctx context.Context) ([]Backup, error)
	// Prune keeps the newest keep backups and deletes the rest.
	Prune(ctx context.Context, keep int) (int, error)
}
