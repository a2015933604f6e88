package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrVectorCountMismatch indicates the embedder returned a different
	// number of vectors than texts submitted.
	ErrVectorCountMismatch = errors.New("embedder returned wrong number of vectors")
)
