// Package services contains application services for the gymcli client.
// This file defines the authentication service: login/register, session
// lifecycle, guarded profile mutations and housekeeping of the persisted
// session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gymnastic-app/gymcli/internal/client/api"
	"github.com/gymnastic-app/gymcli/internal/client/models"
	"github.com/gymnastic-app/gymcli/internal/client/roles"
	"github.com/gymnastic-app/gymcli/internal/client/session"
	"github.com/gymnastic-app/gymcli/internal/client/workflow"
)

// ErrNotAuthenticated is returned by operations that need a signed-in
// session when the store holds no token.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthService defines authentication and profile operations for the CLI.
//
// Contract:
//   - Login: authenticate and persist the session atomically.
//   - Register: create a new account on the server; no session is written.
//   - Authenticated: report token presence, the sole authority for
//     "is signed in".
//   - TokenExpired: inspect (without verifying) the token's exp claim.
//   - VerifyPassword: re-authentication gate; mutates nothing.
//   - UpdateField: persist one profile field and merge it into the session.
//   - DeleteAccount / Logout: irreversible teardown plus a full session clear.
//
// All methods honor context cancellation and timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Register(ctx context.Context, name, email string, age int, password []byte) (string, error)
	Authenticated(ctx context.Context) (bool, error)
	TokenExpired(ctx context.Context) (bool, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	CurrentRole(ctx context.Context) (roles.Role, error)
	LastEmail(ctx context.Context) (string, error)
	PreviousAccounts(ctx context.Context) ([]string, error)
	VerifyPassword(ctx context.Context, password string) (bool, error)
	UpdateField(ctx context.Context, field workflow.Field, value string) error
	UploadProfileImage(ctx context.Context, filename string, image []byte) (string, error)
	ProfileImageURL(ctx context.Context) (string, error)
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by the remote API client
// and the persisted session store.
type authService struct {
	client  api.Client
	store   *session.Store
	baseURL string
	now     func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store and API base URL (used to compose image URLs).
func NewAuthService(client api.Client, store *session.Store, baseURL string) AuthService {
	return &authService{client: client, store: store, baseURL: baseURL, now: time.Now}
}

// Login authenticates against the server and saves the session in one
// transaction: token, user id, username, the raw role exactly as returned
// (decorations included) and the login email, which is also appended to the
// remembered accounts exactly once.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}

	user := resp.User
	userID := strconv.FormatInt(user.ID, 10)
	if err := a.store.SaveLogin(ctx, resp.Token, userID, user.Name, user.Role, email); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if user.ProfileImageURL != "" {
		if err := a.store.SetProfileImagePath(ctx, user.ProfileImageURL); err != nil {
			return nil, fmt.Errorf("failed to save profile image path: %w", err)
		}
	}

	return &user, nil
}

// Register creates a new account. The server assigns the default "usuario"
// role; nothing is written to the local session.
func (a *authService) Register(ctx context.Context, name, email string, age int, password []byte) (string, error) {
	return a.client.Register(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Age:      age,
		Password: string(password),
	})
}

func (a *authService) Authenticated(ctx context.Context) (bool, error) {
	token, err := a.store.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// TokenExpired inspects the stored token's exp claim without verifying the
// signature; the server remains the authority, this is only used to clear
// sessions proactively. Opaque tokens or tokens without exp never expire
// from the client's point of view.
func (a *authService) TokenExpired(ctx context.Context) (bool, error) {
	token, err := a.store.Token(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, nil
	}
	return exp.Before(a.now()), nil
}

func (a *authService) userID(ctx context.Context) (string, error) {
	id, err := a.store.UserID(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}

// CurrentUser fetches the signed-in user's record and refreshes the cached
// role and image path from it.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	id, err := a.userID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := a.client.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role != "" {
		if err := a.store.SetRawRole(ctx, user.Role); err != nil {
			return nil, err
		}
	}
	if user.ProfileImageURL != "" {
		if err := a.store.SetProfileImagePath(ctx, user.ProfileImageURL); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// CurrentRole projects the stored raw role to its canonical form. The
// stored value is never rewritten by normalization.
func (a *authService) CurrentRole(ctx context.Context) (roles.Role, error) {
	raw, err := a.store.RawRole(ctx)
	if err != nil {
		return roles.User, err
	}
	return roles.Normalize(raw), nil
}

func (a *authService) LastEmail(ctx context.Context) (string, error) {
	return a.store.LastEmail(ctx)
}

func (a *authService) PreviousAccounts(ctx context.Context) ([]string, error) {
	return a.store.PreviousAccounts(ctx)
}

// VerifyPassword re-checks the current password against the server. It is
// the gate in front of every sensitive field mutation and changes no state.
func (a *authService) VerifyPassword(ctx context.Context, password string) (bool, error) {
	id, err := a.userID(ctx)
	if err != nil {
		return false, err
	}
	return a.client.VerifyPassword(ctx, id, password)
}

// UpdateField persists exactly one profile field. On success the new value
// is merged into the session's cached display state.
func (a *authService) UpdateField(ctx context.Context, field workflow.Field, value string) error {
	id, err := a.userID(ctx)
	if err != nil {
		return err
	}

	var patch api.UserPatch
	switch field {
	case workflow.FieldName:
		patch.Name = value
	case workflow.FieldEmail:
		patch.Email = value
	case workflow.FieldPassword:
		patch.Password = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	if _, err := a.client.UpdateUser(ctx, id, patch); err != nil {
		return err
	}

	if field == workflow.FieldName {
		return a.store.SetUsername(ctx, value)
	}
	return nil
}

// UploadProfileImage sends the image and stores the returned server-relative
// path. The renderable URL is composed on read, never stored.
func (a *authService) UploadProfileImage(ctx context.Context, filename string, image []byte) (string, error) {
	id, err := a.userID(ctx)
	if err != nil {
		return "", err
	}

	path, err := a.client.UploadProfileImage(ctx, id, filename, image)
	if err != nil {
		return "", err
	}

	if err := a.store.SetProfileImagePath(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// ProfileImageURL composes the renderable image URL from the base URL and
// the stored relative path, with a cache-busting timestamp. Falls back to
// the server's default image when no upload happened yet.
func (a *authService) ProfileImageURL(ctx context.Context) (string, error) {
	path, err := a.store.ProfileImagePath(ctx)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = "/static/default-profile.png"
	}
	return fmt.Sprintf("%s%s?t=%d", a.baseURL, path, a.now().UnixMilli()), nil
}

// DeleteAccount removes the account server-side and wipes the whole local
// session. Irreversible; the caller must have confirmed with the user.
func (a *authService) DeleteAccount(ctx context.Context) error {
	id, err := a.userID(ctx)
	if err != nil {
		return err
	}

	if err := a.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	return a.store.ClearAll(ctx)
}

// Logout wipes every persisted session key. There are no partial clears.
func (a *authService) Logout(ctx context.Context) error {
	return a.store.ClearAll(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases the API client and the session store.
func (a *authService) Close(ctx context.Context) error {
	if err := a.client.Close(); err != nil {
		return err
	}
	return a.store.Close()
}
