package repository

import (
	"context"
	"testing"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBackups(t *testing.T, repo *SQLiteBackupRepo, dates ...string) {
	t.Helper()
	for _, d := range dates {
		require.NoError(t, repo.Create(context.Background(), &Backup{
			Date:      d,
			CreatedAt: d + "T08:00:00Z",
			Data:      []byte(`[]`),
		}))
	}
}

func TestBackupRepo_CreateGetExists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackupRepo(db)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Create(ctx, &Backup{
		Date:      "2026-03-02",
		CreatedAt: "2026-03-02T10:00:00Z",
		Data:      []byte(`[{"id":"a"}]`),
	}))

	ok, err = repo.Exists(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.True(t, ok)

	b, err := repo.Get(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(b.Data))
	assert.Equal(t, "2026-03-02T10:00:00Z", b.CreatedAt)
}

func TestBackupRepo_Create_DuplicateDateFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackupRepo(db)
	seedBackups(t, repo, "2026-03-02")

	err := repo.Create(context.Background(), &Backup{Date: "2026-03-02", CreatedAt: "x", Data: []byte(`[]`)})
	assert.Error(t, err)
}

func TestBackupRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackupRepo(db)

	_, err := repo.Get(context.Background(), "2020-01-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackupRepo_List_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackupRepo(db)
	seedBackups(t, repo, "2026-03-01", "2026-03-03", "2026-03-02")

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-03-03", list[0].Date)
	assert.Equal(t, "2026-03-01", list[2].Date)
	assert.Nil(t, list[0].Data)
}

func TestBackupRepo_Prune(t *testing.T) {
	tests := []struct {
		name       string
		keep       int
		wantPruned int
		wantNewest string
		wantLeft   int
	}{
		{name: "keeps newest two", keep: 2, wantPruned: 2, wantNewest: "2026-03-04", wantLeft: 2},
		{name: "keep more than present", keep: 10, wantPruned: 0, wantNewest: "2026-03-04", wantLeft: 4},
		{name: "keep zero", keep: 0, wantPruned: 4, wantLeft: 0},
		{name: "negative keep behaves as zero", keep: -1, wantPruned: 4, wantLeft: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewTestDB(t)
			repo := NewSQLiteBackupRepo(db)
			ctx := context.Background()
			seedBackups(t, repo, "2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04")

			n, err := repo.Prune(ctx, tt.keep)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPruned, n)

			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, tt.wantLeft)
			if tt.wantLeft > 0 {
				assert.Equal(t, tt.wantNewest, list[0].Date)
			}
		})
	}
}
