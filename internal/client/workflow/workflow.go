// Package workflow implements the re-authenticate-then-edit flow required
// before mutating a profile field (name, email or password). The flow is an
// explicit state machine so the key invariant is enforceable: every field
// mutation needs its own password re-entry, and no update can be sent while
// verification is still pending.
package workflow

import (
	"context"
	"errors"
	"strings"
)

// Field identifies the single profile field an update targets.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Phase is the state of one guarded update.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingVerification
	PhaseEditing
)

var (
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmptyValue        = errors.New("new value must not be empty")
	ErrUpdateInProgress  = errors.New("another update is already in progress")
	ErrNotVerifying      = errors.New("no verification pending")
	ErrNotEditing        = errors.New("no edit in progress")
)

// VerifyFunc re-checks the current password. It must not mutate any state.
type VerifyFunc func(ctx context.Context, password string) (bool, error)

// UpdateFunc persists the new value for the field.
type UpdateFunc func(ctx context.Context, field Field, value string) error

// Update is one guarded field update. It lives only for the duration of a
// single interaction and is never persisted.
type Update struct {
	verify VerifyFunc
	update UpdateFunc

	phase        Phase
	field        Field
	seed         string
	pendingValue string
}

func New(verify VerifyFunc, update UpdateFunc) *Update {
	return &Update{verify: verify, update: update, phase: PhaseIdle}
}

func (u *Update) Phase() Phase { return u.phase }
func (u *Update) Field() Field { return u.field }

// PendingValue is the value being edited; empty until verification succeeds.
func (u *Update) PendingValue() string { return u.pendingValue }

// Begin starts a guarded update for field, moving to AwaitingVerification.
// current is the field's present value, used to seed the editor once the
// password checks out; it is ignored for the password field.
func (u *Update) Begin(field Field, current string) error {
	if u.phase != PhaseIdle {
		return ErrUpdateInProgress
	}

	u.field = field
	u.seed = current
	if field == FieldPassword {
		u.seed = ""
	}
	u.pendingValue = ""
	u.phase = PhaseAwaitingVerification
	return nil
}

// Verify checks the current password. Success moves to Editing and seeds
// the pending value; a wrong password returns ErrIncorrectPassword and puts
// the flow back to Idle, so a fresh Begin (and a fresh password entry) is
// required to try again. Editing is never entered on a failed check.
func (u *Update) Verify(ctx context.Context, password string) error {
	if u.phase != PhaseAwaitingVerification {
		return ErrNotVerifying
	}

	ok, err := u.verify(ctx, password)
	if err != nil {
		u.reset()
		return err
	}
	if !ok {
		u.reset()
		return ErrIncorrectPassword
	}

	u.pendingValue = u.seed
	u.phase = PhaseEditing
	return nil
}

// Submit persists value for the target field. Empty submissions are
// rejected before any network call. On failure the flow stays in Editing
// and keeps the value, so the user can correct and retry; on success the
// flow returns to Idle.
func (u *Update) Submit(ctx context.Context, value string) error {
	if u.phase != PhaseEditing {
		return ErrNotEditing
	}

	if strings.TrimSpace(value) == "" {
		return ErrEmptyValue
	}

	u.pendingValue = value
	if err := u.update(ctx, u.field, value); err != nil {
		return err
	}

	u.reset()
	return nil
}

// Cancel abandons the update from any phase.
func (u *Update) Cancel() {
	u.reset()
}

func (u *Update) reset() {
	u.phase = PhaseIdle
	u.field = ""
	u.seed = ""
	u.pendingValue = ""
}
