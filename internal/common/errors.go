// Package common defines shared constants, sentinel errors and small helpers
// used across TapMap client layers. Callers should use errors.Is to match
// the sentinel values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Input errors caught before any network call.
	ErrValidation = errors.New("validation error")

	// Session errors.
	ErrNoSession = errors.New("no stored session")
)
