package repository

import "errors"

var (
	// ErrNotFound indicates that no record matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("record already exists")
)
