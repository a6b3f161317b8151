// Package common defines shared constants and sentinel errors used across
// the server, the HTTP transport and the CLI client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already registered")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExportDisabled     = errors.New("export disabled")
	ErrValidation         = errors.New("validation failed")

	// Token validation errors. The transport collapses all of them into
	// ErrUnauthorized; they are kept apart for logging.
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
)
