package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cstcaptive/cstlendar/internal/db"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/repository"
	"github.com/cstcaptive/cstlendar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSchedules(t *testing.T, svc ScheduleService, schedules ...*domain.Schedule) {
	t.Helper()
	for _, sc := range schedules {
		require.NoError(t, svc.Create(context.Background(), sc))
	}
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "schedules_backup_20260302.json", ExportFileName(fixedDay))
}

func TestBackupService_ExportThenImportRoundTrip(t *testing.T) {
	src := newTestServices(t)
	ctx := context.Background()
	seedSchedules(t, src.schedules,
		testutil.NewTestSchedule("Plan", testutil.WithID("plan")),
		testutil.NewTestSchedule("Design", testutil.WithID("design"), testutil.WithPredecessors("plan"), testutil.WithTime("10:15")),
		testutil.NewTestSchedule("Review", testutil.WithID("review"), testutil.WithParallels("design"), testutil.WithCompleted()),
	)

	var buf bytes.Buffer
	n, err := src.backups.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "plan", raw[0]["id"])
	assert.Equal(t, []any{}, raw[0]["relations"])
	assert.Equal(t, false, raw[1]["allDay"])

	dst := newTestServices(t)
	n, err = dst.backups.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := dst.schedules.AllSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"plan", "design", "review"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, []string{"plan"}, all[1].Predecessors())
	assert.Equal(t, "10:15", all[1].Time)
	assert.True(t, all[2].Completed)
}

func TestBackupService_Import_ReplacesStore(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	seedSchedules(t, svc.schedules, testutil.NewTestSchedule("Old", testutil.WithID("old")))

	payload := `[{"id":"n1","title":"New","date":"2026-05-01","relations":[{"id":"x","type":"PARENT"}]},
		{"title":"No id","date":"2026-05-02"}]`
	n, err := svc.backups.Import(ctx, strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := svc.schedules.AllSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "n1", all[0].ID)
	assert.Equal(t, domain.RelationParent, all[0].Relations[0].Type)
	assert.True(t, all[0].AllDay)
	assert.NotEmpty(t, all[1].ID)
}

func TestBackupService_Import_RejectsInvalidData(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{name: "object not array", payload: `{"id":"a"}`, wantMsg: "JSON array"},
		{name: "malformed json", payload: `[{"id":`, wantMsg: "decoding"},
		{name: "missing title", payload: `[{"id":"a","date":"2026-01-01"}]`, wantMsg: "title is required"},
		{name: "bad relation", payload: `[{"id":"a","title":"A","date":"2026-01-01","relations":[{"id":"b","type":"sibling"}]}]`, wantMsg: "invalid relation type"},
		{name: "duplicate id", payload: `[{"id":"a","title":"A","date":"2026-01-01"},{"id":"a","title":"B","date":"2026-01-01"}]`, wantMsg: "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t)
			ctx := context.Background()
			seedSchedules(t, svc.schedules, testutil.NewTestSchedule("Keep", testutil.WithID("keep")))

			_, err := svc.backups.Import(ctx, strings.NewReader(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			all, err := svc.schedules.AllSchedules(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "keep", all[0].ID)
		})
	}
}

func TestBackupService_Import_RollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	existing := testutil.NewTestSchedule("Existing", testutil.WithID("existing"))
	require.NoError(t, scheduleRepo.Create(ctx, existing))

	// Exec calls: #1 = delete all, #2 = insert a, #3 = insert b.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 3,
		Err:    fmt.Errorf("injected insert failure"),
	}
	svc := NewBackupService(scheduleRepo, repository.NewSQLiteBackupRepo(database), failUoW, 0, nil)

	payload := `[{"id":"a","title":"A","date":"2026-01-01"},{"id":"b","title":"B","date":"2026-01-02"}]`
	_, err := svc.Import(ctx, strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")

	list, err := scheduleRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "store should be unchanged after rollback")
	assert.Equal(t, "existing", list[0].ID)
}

func TestBackupService_SnapshotIfDue_PrunesToKeep(t *testing.T) {
	database := testutil.NewTestDB(t)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	backupRepo := repository.NewSQLiteBackupRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewBackupService(scheduleRepo, backupRepo, uow, 2, func() time.Time { return day })

	for i := 0; i < 4; i++ {
		taken, err := svc.SnapshotIfDue(ctx)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = svc.SnapshotIfDue(ctx)
		require.NoError(t, err)
		assert.False(t, taken, "second snapshot on the same day")

		day = day.AddDate(0, 0, 1)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-04", list[0].Date)
	assert.Equal(t, "2026-03-03", list[1].Date)
}

func TestBackupService_Restore(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	// The first mutation snapshots the store as it was after that mutation.
	seedSchedules(t, svc.schedules, testutil.NewTestSchedule("First", testutil.WithID("first")))
	seedSchedules(t, svc.schedules, testutil.NewTestSchedule("Second", testutil.WithID("second")))

	n, err := svc.backups.Restore(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := svc.schedules.AllSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "first", all[0].ID)

	_, err = svc.backups.Restore(ctx, "2020-01-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.backups.Restore(ctx, "yesterday")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
