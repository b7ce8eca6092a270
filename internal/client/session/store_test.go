package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveLogin(ctx, "tok", "1", "Alice", "usuario", "alice@gym.test"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok", token)
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(setupDB(t))
}

func TestStore_SaveLogin(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.SaveLogin(ctx, "tok123", "42", "Alice", "%Admin%", "alice@gym.test"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok123", token)

	id, err := store.UserID(ctx)
	require.NoError(t, err)
	require.Equal(t, "42", id)

	name, err := store.Username(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice", name)

	// The raw role is stored exactly as the server sent it.
	role, err := store.RawRole(ctx)
	require.NoError(t, err)
	require.Equal(t, "%Admin%", role)

	email, err := store.LastEmail(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice@gym.test", email)
}

func TestStore_PreviousAccounts(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	accounts, err := store.PreviousAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)

	require.NoError(t, store.SaveLogin(ctx, "t1", "1", "Alice", "usuario", "alice@gym.test"))
	require.NoError(t, store.SaveLogin(ctx, "t2", "2", "Bob", "usuario", "bob@gym.test"))

	accounts, err = store.PreviousAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alice@gym.test", "bob@gym.test"}, accounts)
}

func TestStore_PreviousAccountsNoDuplicates(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.SaveLogin(ctx, "t1", "1", "Alice", "usuario", "alice@gym.test"))
	require.NoError(t, store.SaveLogin(ctx, "t2", "1", "Alice", "usuario", "alice@gym.test"))

	accounts, err := store.PreviousAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alice@gym.test"}, accounts)
}

func TestStore_ProfileImagePathRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	path, err := store.ProfileImagePath(ctx)
	require.NoError(t, err)
	require.Equal(t, "", path)

	require.NoError(t, store.SetProfileImagePath(ctx, "/static/uploads/42.png"))

	path, err = store.ProfileImagePath(ctx)
	require.NoError(t, err)
	require.Equal(t, "/static/uploads/42.png", path)
}

func TestStore_ClearAllLeavesNoResidue(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	store := NewStore(db)

	require.NoError(t, store.SaveLogin(ctx, "tok", "1", "Alice", "%Admin%", "alice@gym.test"))
	require.NoError(t, store.SetProfileImagePath(ctx, "/static/uploads/1.png"))

	require.NoError(t, store.ClearAll(ctx))

	// Not just the known keys: the whole table must be empty so nothing
	// can leak into the next account.
	all, err := NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestStore_TokenAbsentAfterClear(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.SaveLogin(ctx, "tok", "1", "Alice", "usuario", "alice@gym.test"))
	require.NoError(t, store.ClearAll(ctx))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "", token)
}
