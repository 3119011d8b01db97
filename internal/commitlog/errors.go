package commitlog

import "errors"

var (
	// ErrNotFound indicates the project has no commit history.
	ErrNotFound = errors.New("commit history not found")
)
