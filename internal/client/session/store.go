// Package session owns the persisted client session: the bearer token,
// cached identity facts and the remembered-accounts list. Token presence is
// the only authority for "is authenticated"; no other field may be used to
// infer it. All mutation goes through the typed Store so no consumer touches
// raw keys.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gymnastic-app/gymcli/internal/client/session/migrations"
	"github.com/gymnastic-app/gymcli/internal/dbx"
	"github.com/pressly/goose/v3"
)

// Keys written by the application. ClearAll does not enumerate these; it
// wipes the whole table, so a key added later cannot leak across accounts.
const (
	keyToken            = "token"
	keyUserID           = "userId"
	keyUsername         = "username"
	keyUserRole         = "userRole"
	keyLastEmail        = "lastEmail"
	keyPrevAccounts     = "prevAccounts"
	keyProfileImagePath = "profileImageUrl"
)

// Store is the typed facade over the persisted session table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the session database at dsn and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStore(db), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) repo() Repository {
	return NewSQLiteRepository(s.db)
}

func (s *Store) Token(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, keyToken)
}

func (s *Store) UserID(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, keyUserID)
}

func (s *Store) Username(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, keyUsername)
}

func (s *Store) SetUsername(ctx context.Context, username string) error {
	return s.repo().Set(ctx, keyUsername, username)
}

// RawRole returns the role string exactly as the server reported it,
// decorations included. Normalization is a read-time projection done by the
// roles package, never here.
func (s *Store) RawRole(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, keyUserRole)
}

func (s *Store) SetRawRole(ctx context.Context, rawRole string) error {
	return s.repo().Set(ctx, keyUserRole, rawRole)
}

func (s *Store) LastEmail(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, keyLastEmail)
}

// ProfileImagePath returns the server-relative image path. Composing a
// renderable absolute URL (and cache busting) is the caller's concern.
func (s *Store) ProfileImagePath(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, keyProfileImagePath)
}

func (s *Store) SetProfileImagePath(ctx context.Context, path string) error {
	return s.repo().Set(ctx, keyProfileImagePath, path)
}

// PreviousAccounts returns every email that ever logged in from this client,
// in order of first appearance.
func (s *Store) PreviousAccounts(ctx context.Context) ([]string, error) {
	return previousAccounts(ctx, s.repo())
}

func previousAccounts(ctx context.Context, repo Repository) ([]string, error) {
	raw, err := repo.Get(ctx, keyPrevAccounts)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var accounts []string
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode previous accounts: %w", err)
	}
	return accounts, nil
}

func rememberAccount(ctx context.Context, repo Repository, email string) error {
	accounts, err := previousAccounts(ctx, repo)
	if err != nil {
		return err
	}

	for _, a := range accounts {
		if a == email {
			return nil
		}
	}
	accounts = append(accounts, email)

	encoded, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return repo.Set(ctx, keyPrevAccounts, string(encoded))
}

// SaveLogin persists the outcome of a successful login in one transaction:
// token, user id, username, the verbatim raw role, the login email and the
// remembered-accounts append. Either everything lands or nothing does.
func (s *Store) SaveLogin(ctx context.Context, token, userID, username, rawRole, email string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		if err := repo.Set(ctx, keyToken, token); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyUserID, userID); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyUsername, username); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyUserRole, rawRole); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyLastEmail, email); err != nil {
			return err
		}
		return rememberAccount(ctx, repo, email)
	})
}

// ClearAll wipes every key the application ever wrote. Used on logout,
// account deletion and token rejection; there are no partial clears.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.repo().Clear(ctx)
}
