package store

import "errors"

var (
	// ErrNotFound indicates the requested key doesn't exist.
	ErrNotFound = errors.New("not found")
)
