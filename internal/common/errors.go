// Package common defines shared constants and sentinel errors used across
// client and server layers of Commis. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Client-side auth state: no usable credentials, caller must log in again.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Device pairing errors. All terminal for the session in question.
	ErrInvalidCode     = errors.New("invalid code")
	ErrCodeExpired     = errors.New("code expired")
	ErrCodeAlreadyUsed = errors.New("code already used")

	// Token lifecycle errors. Both force an interactive re-login.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Referential integrity guard: the token's owner no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
