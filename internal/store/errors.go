package store

import "errors"

// Error Handling Guidelines:
// - Stores: use fmt.Errorf("context: %w", err) for wrapping errors
// - Handlers: map store sentinels to apperrors.* with errors.Is

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates the resource changed since the caller last read it.
	ErrConflict = errors.New("conflict")
)
