// Package common defines shared constants and sentinel errors used across
// the cryptown server layers. Callers should use errors.Is to match these
// values; services wrap them with a more specific message.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorStore         = errors.New("store error")
	ErrorIntegrity     = errors.New("integrity error")

	// Login errors. ErrorUnauthorized is returned both for unknown accounts
	// and wrong passwords so callers can't tell them apart.
	ErrorUnauthorized = errors.New("incorrect email or password")
	ErrorRateLimited  = errors.New("maximum attempts reached, please try again later")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
