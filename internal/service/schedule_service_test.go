package service

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/repository"
	"github.com/cstcaptive/cstlendar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type testServices struct {
	db        *sql.DB
	schedules ScheduleService
	backups   BackupService
	observer  *recordingObserver
}

var fixedDay = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	backupRepo := repository.NewSQLiteBackupRepo(database)
	obs := &recordingObserver{}
	backups := NewBackupService(scheduleRepo, backupRepo, uow, 3, func() time.Time { return fixedDay }, obs)
	return testServices{
		db:        database,
		schedules: NewScheduleService(scheduleRepo, uow, backups, obs),
		backups:   backups,
		observer:  obs,
	}
}

func TestScheduleService_Create_AssignsIDAndDefaults(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	sc := &domain.Schedule{Title: "Plan", Date: "2026-03-02"}
	require.NoError(t, svc.schedules.Create(ctx, sc))
	assert.NotEmpty(t, sc.ID)
	assert.True(t, sc.AllDay)
	assert.False(t, sc.CreatedAt.IsZero())

	fetched, err := svc.schedules.GetByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan", fetched.Title)
}

func TestScheduleService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sc      domain.Schedule
		wantErr error
	}{
		{name: "missing title", sc: domain.Schedule{Date: "2026-03-02"}},
		{name: "bad date", sc: domain.Schedule{Title: "x", Date: "03/02/2026"}, wantErr: domain.ErrInvalidDate},
		{name: "bad time", sc: domain.Schedule{Title: "x", Date: "2026-03-02", Time: "25:99"}},
		{
			name:    "unknown relation type",
			sc:      domain.Schedule{Title: "x", Date: "2026-03-02", Relations: []domain.Relation{{TargetID: "a", Type: "child"}}},
			wantErr: domain.ErrInvalidRelationType,
		},
		{
			name:    "self relation",
			sc:      domain.Schedule{ID: "me", Title: "x", Date: "2026-03-02", Relations: []domain.Relation{{TargetID: "me", Type: domain.RelationParent}}},
			wantErr: domain.ErrSelfRelation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t)
			sc := tt.sc
			err := svc.schedules.Create(context.Background(), &sc)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			list, err := svc.schedules.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestScheduleService_Create_NormalizesRelations(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	sc := &domain.Schedule{
		Title: "Build",
		Date:  "2026-03-02",
		Relations: []domain.Relation{
			{TargetID: "design", Type: "PARENT"},
			{TargetID: "design", Type: "parent"},
			{TargetID: " review ", Type: "Parallel"},
		},
	}
	require.NoError(t, svc.schedules.Create(ctx, sc))

	fetched, err := svc.schedules.GetByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Relation{
		{TargetID: "design", Type: domain.RelationParent},
		{TargetID: "review", Type: domain.RelationParallel},
	}, fetched.Relations)
}

func TestScheduleService_AllSchedules_IsValueSnapshot(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "a", Title: "A", Date: "2026-03-02"}))
	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "b", Title: "B", Date: "2026-03-03"}))

	all, err := svc.schedules.AllSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	all[0].Title = "mutated"
	fetched, err := svc.schedules.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", fetched.Title)
}

func TestScheduleService_Update(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	sc := &domain.Schedule{ID: "a", Title: "A", Date: "2026-03-02"}
	require.NoError(t, svc.schedules.Create(ctx, sc))

	sc.Title = "A prime"
	sc.Time = "14:00"
	sc.AllDay = false
	sc.Relations = []domain.Relation{{TargetID: "gone", Type: domain.RelationParent}}
	require.NoError(t, svc.schedules.Update(ctx, sc))

	fetched, err := svc.schedules.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A prime", fetched.Title)
	assert.Equal(t, "2026-03-02 14:00", fetched.When())
	assert.Equal(t, []string{"gone"}, fetched.Predecessors())

	sc.Relations = []domain.Relation{{TargetID: "a", Type: domain.RelationParallel}}
	assert.ErrorIs(t, svc.schedules.Update(ctx, sc), domain.ErrSelfRelation)

	missing := &domain.Schedule{ID: "nope", Title: "x", Date: "2026-03-02"}
	assert.ErrorIs(t, svc.schedules.Update(ctx, missing), domain.ErrNotFound)
}

func TestScheduleService_ToggleComplete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "a", Title: "A", Date: "2026-03-02"}))

	done, err := svc.schedules.ToggleComplete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = svc.schedules.ToggleComplete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, done)

	_, err = svc.schedules.ToggleComplete(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleService_AddRelation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "plan", Title: "Plan", Date: "2026-03-02"}))
	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "design", Title: "Design", Date: "2026-03-03"}))

	require.NoError(t, svc.schedules.AddRelation(ctx, "design", "plan", domain.RelationParent))
	fetched, err := svc.schedules.GetByID(ctx, "design")
	require.NoError(t, err)
	assert.True(t, fetched.HasRelation("plan", domain.RelationParent))

	assert.ErrorIs(t, svc.schedules.AddRelation(ctx, "design", "design", domain.RelationParent), domain.ErrSelfRelation)
	assert.ErrorIs(t, svc.schedules.AddRelation(ctx, "design", "ghost", domain.RelationParent), domain.ErrNotFound)
	assert.ErrorIs(t, svc.schedules.AddRelation(ctx, "ghost", "plan", domain.RelationParent), domain.ErrNotFound)
	assert.ErrorIs(t, svc.schedules.AddRelation(ctx, "design", "plan", "sibling"), domain.ErrInvalidRelationType)
}

func TestScheduleService_RemoveRelation_AllowsDanglingTarget(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "plan", Title: "Plan", Date: "2026-03-02"}))
	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{
		ID: "design", Title: "Design", Date: "2026-03-03",
		Relations: []domain.Relation{{TargetID: "plan", Type: domain.RelationParent}},
	}))
	require.NoError(t, svc.schedules.Delete(ctx, "plan"))

	require.NoError(t, svc.schedules.RemoveRelation(ctx, "design", "plan", domain.RelationParent))
	fetched, err := svc.schedules.GetByID(ctx, "design")
	require.NoError(t, err)
	assert.Empty(t, fetched.Relations)
}

func TestScheduleService_Mutation_TakesDailySnapshotOnce(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "a", Title: "A", Date: "2026-03-02"}))
	require.NoError(t, svc.schedules.Create(ctx, &domain.Schedule{ID: "b", Title: "B", Date: "2026-03-02"}))

	backups, err := svc.backups.List(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "2026-03-02", backups[0].Date)

	snaps := svc.observer.named("daily-snapshot")
	require.Len(t, snaps, 2)
	assert.Equal(t, true, snaps[0].Fields["taken"])
	assert.Equal(t, false, snaps[1].Fields["taken"])
}

func TestScheduleService_ObservesFailures(t *testing.T) {
	svc := newTestServices(t)

	err := svc.schedules.Delete(context.Background(), "missing")
	require.Error(t, err)

	events := svc.observer.named("delete-schedule")
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.ErrorIs(t, events[0].Err, domain.ErrNotFound)
	assert.Empty(t, svc.observer.named("daily-snapshot"))
}

func TestLogUseCaseObserver_WritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewLogUseCaseObserver(logger)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "create-schedule",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"title": "Plan"},
	})
	out := buf.String()
	assert.Contains(t, out, "use_case=create-schedule")
	assert.Contains(t, out, "duration_ms=3")
	assert.Contains(t, out, "title=Plan")

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
