package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/repository"
	"github.com/google/uuid"
)

// DefaultBackupKeep is how many daily snapshots are retained.
const DefaultBackupKeep = 7

// ExportFileName is the default export file name for day t.
func ExportFileName(t time.Time) string {
	return "schedules_backup_" + t.Format("20060102") + ".json"
}

type backupService struct {
	schedules repository.ScheduleRepo
	backups   repository.BackupRepo
	uow       db.UnitOfWork
	keep      int
	now       func() time.Time
	observer  UseCaseObserver
}

// NewBackupService builds the backup use cases. keep < 1 means
// DefaultBackupKeep and a nil now means time.Now.
func NewBackupService(
	schedules repository.ScheduleRepo,
	backups repository.BackupRepo,
	uow db.UnitOfWork,
	keep int,
	now func() time.Time,
	observers ...UseCaseObserver,
) BackupService {
	if keep < 1 {
		keep = DefaultBackupKeep
	}
	if now == nil {
		now = time.Now
	}
	return &backupService{
		schedules: schedules,
		backups:   backups,
		uow:       uow,
		keep:      keep,
		now:       now,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *backupService) SnapshotIfDue(ctx context.Context) (bool, error) {
	today := s.now().Format(domain.DateLayout)
	taken := false
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		backups := repository.NewSQLiteBackupRepo(tx)
		exists, err := backups.Exists(ctx, today)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		list, err := repository.NewSQLiteScheduleRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		data, err := encodeSchedules(list)
		if err != nil {
			return err
		}
		err = backups.Create(ctx, &repository.Backup{
			Date:      today,
			CreatedAt: s.now().UTC().Format(time.RFC3339),
			Data:      data,
		})
		if err != nil {
			return err
		}
		if _, err := backups.Prune(ctx, s.keep); err != nil {
			return err
		}
		taken = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("taking snapshot for %s: %w", today, err)
	}
	return taken, nil
}

func (s *backupService) List(ctx context.Context) ([]repository.Backup, error) {
	return s.backups.List(ctx)
}

func (s *backupService) Export(ctx context.Context, w io.Writer) (int, error) {
	list, err := s.schedules.List(ctx)
	if err != nil {
		return 0, err
	}
	data, err := encodeSchedules(list)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(list), nil
}

func (s *backupService) Import(ctx context.Context, r io.Reader) (n int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-schedules",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"count": n},
		})
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading import: %w", err)
	}
	return s.replaceAll(ctx, data)
}

func (s *backupService) Restore(ctx context.Context, date string) (n int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "restore-backup",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"date": date, "count": n},
		})
	}()

	if _, err = domain.ParseDate(date); err != nil {
		return 0, err
	}
	b, err := s.backups.Get(ctx, date)
	if err != nil {
		return 0, err
	}
	return s.replaceAll(ctx, b.Data)
}

// replaceAll validates data as a schedule array and swaps it in for the
// current store contents in a single transaction.
func (s *backupService) replaceAll(ctx context.Context, data []byte) (int, error) {
	list, err := decodeSchedules(data)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteScheduleRepo(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		for i := range list {
			sc := &list[i]
			sc.Position = i
			sc.CreatedAt = now
			sc.UpdatedAt = now
			if err := repo.Insert(ctx, sc); err != nil {
				return fmt.Errorf("restoring schedule %q: %w", sc.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func encodeSchedules(list []*domain.Schedule) ([]byte, error) {
	out := make([]domain.Schedule, 0, len(list))
	for _, sc := range list {
		v := *sc
		if v.Relations == nil {
			v.Relations = []domain.Relation{}
		}
		out = append(out, v)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schedules: %w", err)
	}
	return data, nil
}

// decodeSchedules parses a JSON array of schedules. Missing ids are
// generated; duplicate ids and invalid entries are rejected.
func decodeSchedules(data []byte) ([]domain.Schedule, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("backup data must be a JSON array")
	}
	var list []domain.Schedule
	if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
		return nil, fmt.Errorf("decoding backup data: %w", err)
	}
	seen := make(map[string]bool, len(list))
	for i := range list {
		sc := &list[i]
		if sc.ID == "" {
			sc.ID = uuid.New().String()
		}
		if seen[sc.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, sc.ID)
		}
		seen[sc.ID] = true
		if sc.Time == "" {
			sc.AllDay = true
		}
		if err := normalizeRelations(sc); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return list, nil
}
