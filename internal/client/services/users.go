package services

import (
	"context"
	"errors"

	"github.com/gymnastic-app/gymcli/internal/client/api"
	"github.com/gymnastic-app/gymcli/internal/client/models"
)

var ErrEmptyRole = errors.New("role must not be empty")

// UserAdminService exposes the admin-only user management operations.
// Authorization is enforced server-side; the CLI additionally gates these
// behind the admin role for a sane UX.
type UserAdminService interface {
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, userID, role string) error
}

type userAdminService struct {
	client api.Client
}

func NewUserAdminService(client api.Client) UserAdminService {
	return &userAdminService{client: client}
}

func (u *userAdminService) List(ctx context.Context) ([]models.User, error) {
	return u.client.ListUsers(ctx)
}

func (u *userAdminService) SetRole(ctx context.Context, userID, role string) error {
	if role == "" {
		return ErrEmptyRole
	}
	_, err := u.client.UpdateUser(ctx, userID, api.UserPatch{Role: role})
	return err
}
