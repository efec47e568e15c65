// Package common defines shared sentinel errors used across server layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenReused is returned when a presented refresh token no longer
	// matches the one stored for the account, i.e. it was already rotated
	// away or revoked.
	ErrTokenReused = errors.New("refresh token already used")
)
