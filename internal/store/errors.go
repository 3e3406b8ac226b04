package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrStoreDisabled is returned when no database is configured.
	ErrStoreDisabled = errors.New("attempt store disabled")
)
