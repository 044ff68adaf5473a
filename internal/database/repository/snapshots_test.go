package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/appshell/internal/database"
	"github.com/jask/appshell/internal/database/repository"
)

func openTestDB(t *testing.T) *repository.SnapshotRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewSnapshotRepo(db)
}

func TestSnapshotUpsertAndGet(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openTestDB(t)

	missing, err := repo.Get(ctx, "settings")
	require.NoError(t, err)
	require.Nil(t, missing)

	rev1, err := repo.Upsert(ctx, "settings", []byte(`{"serverURL":"https://a.example"}`))
	require.NoError(t, err)
	require.NotEmpty(t, rev1)

	rev2, err := repo.Upsert(ctx, "settings", []byte(`{"serverURL":"https://b.example"}`))
	require.NoError(t, err)
	require.NotEqual(t, rev1, rev2)

	got, err := repo.Get(ctx, "settings")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.JSONEq(t, `{"serverURL":"https://b.example"}`, string(got.Value))
	require.Equal(t, rev2, got.Revision)
}

func TestSnapshotListAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := openTestDB(t)

	_, err := repo.Upsert(ctx, "b", []byte(`2`))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "a", []byte(`1`))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].Key)
	require.Equal(t, "b", list[1].Key)

	require.NoError(t, repo.Delete(ctx, "a"))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
