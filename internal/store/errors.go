package store

import "errors"

var (
	// ErrNotFound is returned when the natural key matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create collides with an existing
	// natural key (case-insensitive).
	ErrConflict = errors.New("record already exists")
)
