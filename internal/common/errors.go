// Package common defines shared constants and sentinel errors used across
// the postboard server layers. Callers should use errors.Is to match these
// values; components wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Validation errors: malformed identifiers, unresolved references at creation.
	ErrBadRequest = errors.New("bad request")

	// Auth errors. Bad signature, malformed and expired tokens all map here.
	ErrInvalidToken = errors.New("invalid token")
)
