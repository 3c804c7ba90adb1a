package repository

import (
	"context"
	"testing"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Design",
		testutil.WithDate("2026-04-01"),
		testutil.WithTime("09:30"),
		testutil.WithOwner("mira"),
		testutil.WithPredecessors("plan"),
		testutil.WithParallels("review"),
	)
	require.NoError(t, repo.Create(ctx, s))

	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design", fetched.Title)
	assert.Equal(t, "2026-04-01", fetched.Date)
	assert.Equal(t, "09:30", fetched.Time)
	assert.False(t, fetched.AllDay)
	assert.Equal(t, "mira", fetched.Owner)
	assert.Equal(t, s.CreatedAt, fetched.CreatedAt)
	assert.Equal(t, []domain.Relation{
		{TargetID: "plan", Type: domain.RelationParent},
		{TargetID: "review", Type: domain.RelationParallel},
	}, fetched.Relations)
}

func TestScheduleRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleRepo_List_PreservesStoreOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	a := testutil.NewTestSchedule("A", testutil.WithID("a"))
	b := testutil.NewTestSchedule("B", testutil.WithID("b"), testutil.WithPredecessors("a"))
	c := testutil.NewTestSchedule("C", testutil.WithID("c"), testutil.WithPredecessors("b", "a"))
	for _, s := range []*domain.Schedule{c, a, b} {
		require.NoError(t, repo.Create(ctx, s))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
	assert.Equal(t, []string{"b", "a"}, list[0].Predecessors())
	assert.Empty(t, list[1].Relations)
}

func TestScheduleRepo_Insert_UsesGivenPosition(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	late := testutil.NewTestSchedule("Late", testutil.WithID("late"))
	late.Position = 5
	early := testutil.NewTestSchedule("Early", testutil.WithID("early"))
	early.Position = 1
	require.NoError(t, repo.Insert(ctx, late))
	require.NoError(t, repo.Insert(ctx, early))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].ID)

	// Create appends after the highest position.
	tail := testutil.NewTestSchedule("Tail")
	require.NoError(t, repo.Create(ctx, tail))
	assert.Equal(t, 6, tail.Position)
}

func TestScheduleRepo_Update_ReplacesRelations(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Build", testutil.WithPredecessors("x", "y"))
	require.NoError(t, repo.Create(ctx, s))

	s.Title = "Build v2"
	s.Completed = true
	s.Relations = []domain.Relation{{TargetID: "z", Type: domain.RelationParent}}
	require.NoError(t, repo.Update(ctx, s))

	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Build v2", fetched.Title)
	assert.True(t, fetched.Completed)
	assert.Equal(t, []string{"z"}, fetched.Predecessors())
}

func TestScheduleRepo_Update_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)

	err := repo.Update(context.Background(), testutil.NewTestSchedule("Ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleRepo_SetCompleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Ship")
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.SetCompleted(ctx, s.ID, true))
	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Completed)

	require.NoError(t, repo.SetCompleted(ctx, s.ID, false))
	fetched, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Completed)

	assert.ErrorIs(t, repo.SetCompleted(ctx, "missing", true), domain.ErrNotFound)
}

func TestScheduleRepo_AddRelation_AppendsAndIgnoresDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Test", testutil.WithPredecessors("build"))
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.AddRelation(ctx, s.ID, domain.Relation{TargetID: "design", Type: domain.RelationParent}))
	require.NoError(t, repo.AddRelation(ctx, s.ID, domain.Relation{TargetID: "design", Type: domain.RelationParent}))
	require.NoError(t, repo.AddRelation(ctx, s.ID, domain.Relation{TargetID: "design", Type: domain.RelationParallel}))

	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "design"}, fetched.Predecessors())
	assert.Equal(t, []string{"design"}, fetched.ParallelIDs())
}

func TestScheduleRepo_RemoveRelation(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Test", testutil.WithPredecessors("a", "b"))
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.RemoveRelation(ctx, s.ID, "a", domain.RelationParent))
	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, fetched.Predecessors())

	err = repo.RemoveRelation(ctx, s.ID, "a", domain.RelationParent)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleRepo_Delete_LeavesInboundRelationsDangling(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	parent := testutil.NewTestSchedule("Parent", testutil.WithID("p"))
	child := testutil.NewTestSchedule("Child", testutil.WithID("c"), testutil.WithPredecessors("p"))
	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.Create(ctx, child))

	require.NoError(t, repo.Delete(ctx, "p"))

	_, err := repo.GetByID(ctx, "p")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	fetched, err := repo.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, fetched.Predecessors())

	assert.ErrorIs(t, repo.Delete(ctx, "p"), domain.ErrNotFound)
}

func TestScheduleRepo_Delete_CascadesOwnRelations(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSchedule("Doomed", testutil.WithPredecessors("x"))
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relations`).Scan(&n))
	assert.Zero(t, n)
}

func TestScheduleRepo_DeleteAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSchedule("One")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSchedule("Two", testutil.WithPredecessors("x"))))
	require.NoError(t, repo.DeleteAll(ctx))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
