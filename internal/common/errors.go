// Package common defines shared constants and sentinel errors used across
// the server, the client and the crypto helpers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Password hashing errors.
	ErrHashing    = errors.New("password hashing failed")
	ErrHashFormat = errors.New("malformed password hash")

	// Token errors. Both collapse to ErrorUnauthorized at the transport boundary.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Signing key errors.
	ErrEmptySecret = errors.New("empty signing secret")
)
