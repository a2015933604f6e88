package chunker

import "errors"

var (
	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap indicates the overlap is negative or not strictly
	// smaller than the chunk size.
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and less than chunk size")

	// ErrEmptyDocument indicates the source document contained no text
	// after cleaning.
	ErrEmptyDocument = errors.New("document is empty")
)
