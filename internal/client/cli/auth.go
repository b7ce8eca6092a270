package cli

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/gymnastic-app/gymcli/internal/client/api"
	"github.com/gymnastic-app/gymcli/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and tries to authenticate. The prompt is
// prefilled with the last successfully used email, and previously seen
// accounts are listed for convenience.
//
// Expected failures (bad credentials, unreachable server) are reported
// inline and do not propagate; the password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	prefill, err := a.authService.LastEmail(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to read last email", "err", err)
	}

	if accounts, err := a.authService.PreviousAccounts(ctx); err == nil && len(accounts) > 0 {
		printlnFn("Known accounts: " + strings.Join(accounts, ", "))
	}

	prompt := "Enter email"
	if prefill != "" {
		prompt = "Enter email [" + prefill + "]"
	}
	email, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if email == "" {
		email = prefill
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	epoch := a.currentEpoch()

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrInvalidCredentials):
			printlnFn(err.Error())
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Login failed: " + err.Error())
		}
		a.log.Warn(ctx, "login unsuccessful", "err", err)
		return nil
	}

	if !a.applyLogin(epoch, user) {
		// Session changed while the request was in flight; drop the result.
		return nil
	}

	a.log.Info(ctx, "signed in", "user", user.Name)
	printlnFn("Welcome, " + user.Name + "!")
	return nil
}

// Register prompts for the new account's details and creates it. On success
// the user still has to log in; no session is written.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	ageText, err := getSimpleText(a.reader, "Enter age", os.Stdout)
	if err != nil {
		return err
	}
	age, err := strconv.Atoi(ageText)
	if err != nil {
		printlnFn("Age must be a number")
		return nil
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	msg, err := a.authService.Register(ctx, name, email, age, password)
	if err != nil {
		if errors.Is(err, api.ErrValidation) {
			printlnFn(err.Error())
			return nil
		}
		printlnFn("Registration failed: " + err.Error())
		a.log.Warn(ctx, "registration unsuccessful", "err", err)
		return nil
	}

	printlnFn(msg + " — you can log in now")
	return nil
}

// Logout wipes the persisted session and drops back to the public views.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.invalidateSession()
	printlnFn("Signed out")
	return nil
}
