package document

import "errors"

var (
	// ErrNotFound indicates the document doesn't exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidDocument indicates the payload is not a JSON object.
	ErrInvalidDocument = errors.New("invalid document payload")
)
