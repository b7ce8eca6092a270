package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gymnastic-app/gymcli/internal/client/roles"
	"github.com/gymnastic-app/gymcli/internal/client/workflow"
	"github.com/gymnastic-app/gymcli/internal/shared"
)

// Profile shows the signed-in user's record, with the role projected to its
// canonical form for display.
func (a *App) Profile(ctx context.Context) error {
	epoch := a.currentEpoch()

	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not load profile: " + err.Error())
		return err
	}

	a.mu.Lock()
	if epoch == a.epoch && a.state == StateAuthenticated {
		a.user = user
	}
	a.mu.Unlock()

	role := roles.Normalize(user.Role)
	label := role.Label()
	if g := role.Glyph(); g != "" {
		label += " " + g
	}

	printlnFn("Name:  " + user.Name)
	printlnFn("Email: " + user.Email)
	printlnFn(fmt.Sprintf("Age:   %d", user.Age))
	printlnFn("Role:  " + label)

	if imageURL, err := a.authService.ProfileImageURL(ctx); err == nil {
		printlnFn("Photo: " + imageURL)
	}
	return nil
}

// UpdateField runs the guarded update flow for one profile field: the
// current password is re-checked first, and only then is the new value
// requested and persisted. A wrong password ends the attempt; the next try
// starts from scratch.
func (a *App) UpdateField(ctx context.Context, field workflow.Field) error {
	current := ""
	a.mu.Lock()
	if a.user != nil {
		switch field {
		case workflow.FieldName:
			current = a.user.Name
		case workflow.FieldEmail:
			current = a.user.Email
		}
	}
	a.mu.Unlock()

	upd := workflow.New(a.authService.VerifyPassword, a.authService.UpdateField)
	if err := upd.Begin(field, current); err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter current password")
	if err != nil {
		upd.Cancel()
		return err
	}
	verifyErr := upd.Verify(ctx, string(password))
	shared.WipeByteArray(password)

	if verifyErr != nil {
		if errors.Is(verifyErr, workflow.ErrIncorrectPassword) {
			printlnFn("Incorrect password")
			return nil
		}
		if a.handleSessionError(ctx, verifyErr) {
			return nil
		}
		printlnFn("Could not verify password: " + verifyErr.Error())
		a.log.Warn(ctx, "password verification failed", "err", verifyErr)
		return nil
	}

	var value string
	if field == workflow.FieldPassword {
		newPassword, err := getPassword(os.Stdout, "Enter new password")
		if err != nil {
			upd.Cancel()
			return err
		}
		value = string(newPassword)
		shared.WipeByteArray(newPassword)
	} else {
		prompt := fmt.Sprintf("Enter new %s", field)
		if upd.PendingValue() != "" {
			prompt = fmt.Sprintf("Enter new %s [%s]", field, upd.PendingValue())
		}
		value, err = getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			upd.Cancel()
			return err
		}
		if value == "" {
			value = upd.PendingValue()
		}
	}

	for {
		err := upd.Submit(ctx, value)
		if err == nil {
			break
		}

		if errors.Is(err, workflow.ErrEmptyValue) {
			upd.Cancel()
			printlnFn("Please enter a new value")
			return nil
		}
		if a.handleSessionError(ctx, err) {
			upd.Cancel()
			return nil
		}

		// The flow stays in Editing with the value kept, so the user can
		// correct and resubmit without another password entry. Empty input
		// abandons the update.
		printlnFn("Update failed: " + err.Error())
		a.log.Warn(ctx, "field update failed", "field", string(field), "err", err)

		retry, rerr := a.promptRetryValue(field)
		if rerr != nil || retry == "" {
			upd.Cancel()
			printlnFn("Cancelled")
			return nil
		}
		value = retry
	}

	printlnFn("Updated!")
	a.refreshUser(ctx)
	return nil
}

func (a *App) promptRetryValue(field workflow.Field) (string, error) {
	if field == workflow.FieldPassword {
		pw, err := getPassword(os.Stdout, "Enter new password (empty to cancel)")
		if err != nil {
			return "", err
		}
		value := string(pw)
		shared.WipeByteArray(pw)
		return value, nil
	}
	return getSimpleText(a.reader, fmt.Sprintf("Enter new %s (empty to cancel)", field), os.Stdout)
}

// UploadImage reads an image file and uploads it as the profile photo. The
// server returns a relative path; the composed, cache-busted URL is printed
// for the user.
func (a *App) UploadImage(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter image file path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Could not read file: " + err.Error())
		return nil
	}

	relPath, err := a.authService.UploadProfileImage(ctx, filepath.Base(path), data)
	if err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Upload failed: " + err.Error())
		a.log.Warn(ctx, "image upload failed", "err", err)
		return nil
	}

	printlnFn("Uploaded: " + relPath)
	if imageURL, err := a.authService.ProfileImageURL(ctx); err == nil {
		printlnFn("View at: " + imageURL)
	}
	return nil
}

// DeleteAccount irreversibly removes the account after an explicit
// confirmation, then wipes the session.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This cannot be undone. Type 'yes' to delete your account", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.authService.DeleteAccount(ctx); err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not delete account: " + err.Error())
		a.log.Error(ctx, "account deletion failed", "err", err)
		return err
	}

	a.invalidateSession()
	printlnFn("Account deleted")
	return nil
}
