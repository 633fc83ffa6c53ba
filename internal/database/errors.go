package database

import "errors"

var (
	// ErrNotFound is returned by stores when the addressed document is absent.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)
