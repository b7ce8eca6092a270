package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymnastic-app/gymcli/internal/client/api"
	"github.com/gymnastic-app/gymcli/internal/client/workflow"
)

func TestApp_Profile(t *testing.T) {
	out := captureOutput(t)

	fake := &fakeAuth{user: signedInUser(), authenticated: true}
	app := newTestApp(fake)
	app.state = StateAuthenticated

	require.NoError(t, app.Profile(context.Background()))

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Name:  Alice")
	assert.Contains(t, joined, "Email: alice@gym.test")
	assert.Contains(t, joined, "Age:   30")
	// The decorated role is shown normalized, never raw.
	assert.Contains(t, joined, "Role:  Admin 👑")
	assert.NotContains(t, joined, "%Admin%")
	assert.Contains(t, joined, "Photo: http://localhost:5000/static/uploads/42.png?t=1")
}

func TestApp_UpdateFieldHappyPath(t *testing.T) {
	out := captureOutput(t)
	stubTextInputs(t, "Alicia")
	stubPasswords(t, "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	assert.Equal(t, "Alicia", fake.updates[workflow.FieldName])
	assert.Contains(t, strings.Join(*out, "\n"), "Updated!")
}

func TestApp_UpdateFieldWrongPassword(t *testing.T) {
	out := captureOutput(t)
	stubPasswords(t, "wrong")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	app := newTestApp(fake)
	app.state = StateAuthenticated

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	// The mutation never happened.
	assert.Empty(t, fake.updates)
	assert.Contains(t, strings.Join(*out, "\n"), "Incorrect password")
}

func TestApp_UpdateFieldKeepsCurrentValueOnEmptyInput(t *testing.T) {
	captureOutput(t)
	stubTextInputs(t, "") // accept the prefilled current value
	stubPasswords(t, "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldEmail))
	assert.Equal(t, "alice@gym.test", fake.updates[workflow.FieldEmail])
}

func TestApp_UpdateFieldEmptyPassword(t *testing.T) {
	out := captureOutput(t)
	stubPasswords(t, "secret", "")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	app := newTestApp(fake)
	app.state = StateAuthenticated

	// The password field has no current value to fall back to, so an empty
	// entry is rejected before anything is sent.
	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldPassword))
	assert.Empty(t, fake.updates)
	assert.Contains(t, strings.Join(*out, "\n"), "Please enter a new value")
}

func TestApp_ProfileSignsOutOnRejectedToken(t *testing.T) {
	out := captureOutput(t)

	fake := &fakeAuth{user: signedInUser(), authenticated: true}
	fake.currentUserErr = fmt.Errorf("%w: token rejected", api.ErrUnauthorized)
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.Profile(context.Background()))

	// A token the server refused forces a full sign-out, not a retry.
	assert.Equal(t, StateUnauthenticated, app.State())
	assert.True(t, fake.loggedOut)
	assert.Contains(t, strings.Join(*out, "\n"), "Session ended, please log in again")
}

func TestApp_UpdateFieldVerifySignsOutOnRejectedToken(t *testing.T) {
	captureOutput(t)
	stubPasswords(t, "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	fake.verifyErr = fmt.Errorf("%w: token rejected", api.ErrUnauthorized)
	app := newTestApp(fake)
	app.state = StateAuthenticated

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	assert.Equal(t, StateUnauthenticated, app.State())
	assert.True(t, fake.loggedOut)
	assert.Empty(t, fake.updates)
}

func TestApp_UpdateFieldSubmitSignsOutOnRejectedToken(t *testing.T) {
	captureOutput(t)
	stubTextInputs(t, "Alicia")
	stubPasswords(t, "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	fake.updateErrs = []error{fmt.Errorf("%w: token expired", api.ErrUnauthorized)}
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	assert.Equal(t, StateUnauthenticated, app.State())
	assert.True(t, fake.loggedOut)
	assert.Empty(t, fake.updates)
}

func TestApp_UpdateFieldRetryAfterFailedSubmit(t *testing.T) {
	out := captureOutput(t)
	stubTextInputs(t, "Alicia", "Alicia2")
	stubPasswords(t, "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	fake.updateErrs = []error{errors.New("server error")}
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	// The corrected value went through without a second password entry.
	assert.Equal(t, "Alicia2", fake.updates[workflow.FieldName])
	assert.Equal(t, 1, fake.verifyCalls)
	assert.Contains(t, strings.Join(*out, "\n"), "Update failed: server error")
}

func TestApp_UpdateFieldRetryEmptyInputCancels(t *testing.T) {
	out := captureOutput(t)
	stubTextInputs(t, "Alicia", "")
	stubPasswords(t, "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	fake.updateErrs = []error{errors.New("server error")}
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	assert.Empty(t, fake.updates)
	assert.Contains(t, strings.Join(*out, "\n"), "Cancelled")
}

func TestApp_UpdateFieldEachAttemptNeedsFreshPassword(t *testing.T) {
	captureOutput(t)
	stubTextInputs(t, "Alicia", "Alicia2")
	stubPasswords(t, "secret", "secret")

	fake := &fakeAuth{user: signedInUser(), password: "secret", authenticated: true}
	app := newTestApp(fake)
	app.state = StateAuthenticated
	user := signedInUser()
	app.user = &user

	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))
	require.NoError(t, app.UpdateField(context.Background(), workflow.FieldName))

	assert.Equal(t, 2, fake.verifyCalls)
}
