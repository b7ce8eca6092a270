package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_SetGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, "token", "abc"))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}

func TestSQLiteRepository_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	got, err := repo.Get(ctx, "nothing")
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestSQLiteRepository_SetIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, "token", "first"))
	require.NoError(t, repo.Set(ctx, "token", "second"))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, "token", "abc"))
	require.NoError(t, repo.Delete(ctx, "token"))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestSQLiteRepository_ListAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, "a", "1"))
	require.NoError(t, repo.Set(ctx, "b", "2"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, all)

	require.NoError(t, repo.Clear(ctx))

	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
