// Package common defines shared constants and sentinel errors used across
// client and server layers of opsdeck. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrSamePassword       = errors.New("new password cannot be the same as the current one")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)
