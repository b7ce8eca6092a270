// Package api is the gateway to the remote Gymnastic REST API. It owns
// request construction, bearer-token injection and the translation of
// transport and HTTP failures into the package's sentinel errors.
package api

import (
	"context"

	"github.com/gymnastic-app/gymcli/internal/client/models"
)

// RegisterRequest is the body of POST /registro. The server defaults new
// accounts to the "usuario" role when Role is left empty.
type RegisterRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Age      int    `json:"edad"`
	Password string `json:"contrasena"`
	Role     string `json:"rol"`
}

// UserPatch is a partial update for PUT /usuario/{id}. Empty fields are
// omitted from the request body; at least one field must be set.
type UserPatch struct {
	Name     string `json:"nombre,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"contrasena,omitempty"`
	Role     string `json:"rol,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p UserPatch) IsEmpty() bool {
	return p == UserPatch{}
}

// Client is the remote API surface the rest of the client programs against.
// VerifyPassword is a pure re-authentication check and never mutates
// session state on either side.
type Client interface {
	Close() error
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID string, patch UserPatch) (*models.User, error)
	VerifyPassword(ctx context.Context, userID, password string) (bool, error)
	DeleteUser(ctx context.Context, userID string) error
	UploadProfileImage(ctx context.Context, userID, filename string, image []byte) (string, error)
	Classes(ctx context.Context) ([]models.Class, error)
	ScheduledClasses(ctx context.Context) ([]models.ScheduledClass, error)
	ScheduleClass(ctx context.Context, class models.ScheduledClass) error
	Ping(ctx context.Context) error
}
