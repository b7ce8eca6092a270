package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gymnastic-app/gymcli/internal/client/roles"
)

// Users lists every registered account. The REPL only routes admins here;
// the server enforces the same rule independently.
func (a *App) Users(ctx context.Context) error {
	users, err := a.userAdmin.List(ctx)
	if err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not load users: " + err.Error())
		return err
	}

	for _, u := range users {
		role := roles.Normalize(u.Role)
		printlnFn(fmt.Sprintf("#%d %s <%s> — %s", u.ID, u.Name, u.Email, role.Label()))
	}
	return nil
}

// SetUserRole changes another account's role.
func (a *App) SetUserRole(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "User id", os.Stdout)
	if err != nil {
		return err
	}

	role, err := getSimpleText(a.reader, "New role (admin, entrenador, usuario)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.userAdmin.SetRole(ctx, id, role); err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not update role: " + err.Error())
		a.log.Warn(ctx, "role update failed", "user", id, "err", err)
		return nil
	}

	printlnFn("Role updated")
	return nil
}
