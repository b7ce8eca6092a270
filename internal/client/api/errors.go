package api

import "errors"

// Sentinel errors for the failure taxonomy of gateway calls. Server-supplied
// detail text is wrapped around these, so callers match with errors.Is and
// print err.Error() verbatim.
var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrServer             = errors.New("server error")
)
