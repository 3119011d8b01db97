package vcs

import "fmt"

// ValidationError rejects a commit before any durable mutation is attempted:
// an empty message or a working snapshot identical to HEAD.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StorageError indicates local durable I/O failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NetworkError carries a non-success HTTP response or a transport failure.
type NetworkError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network: %v", e.Err)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SerializationError indicates malformed persisted or received data.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
