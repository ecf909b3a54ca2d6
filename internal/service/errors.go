// FILE: internal/service/errors.go
package service

import "errors"

// Validation errors: malformed input, surfaced immediately, never retried.
var (
	ErrInvalidIdentifier = errors.New("username must be 3-20 alphanumeric characters")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
	ErrEmptyMessage      = errors.New("message is empty")
)

// Authentication errors: the caller should re-login, not retry.
var (
	ErrDuplicateIdentifier = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotAuthenticated    = errors.New("not authenticated")
)
