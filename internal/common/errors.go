// Package common defines shared constants and sentinel errors used across
// server and client layers of mediakeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrorDuplicateUsername = errors.New("username already exists")
	ErrorLastAdmin         = errors.New("at least one administrator must remain")
	ErrorPersistence       = errors.New("persistence failure")

	// Payload errors.
	ErrorInvalidPayloadType = errors.New("invalid payload type")
	ErrorPayloadMissing     = fmt.Errorf("payload missing: %w", ErrorNotFound)

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid, malformed or mis-scoped token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. An expired token is also an invalid one.
	ErrTokenExpired = fmt.Errorf("token expired: %w", ErrInvalidToken)
)
