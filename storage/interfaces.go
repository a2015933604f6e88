package storage

import (
	"context"

	"github.com/poiesic/campusrag/core"
)

// ChunkRepository provides durable storage and vector retrieval over the
// chunk corpus. Implementations must support concurrent reads; mutation
// (AddChunks, Reset) is expected to happen during a setup phase disjoint
// from querying.
type ChunkRepository interface {
	// AddChunks persists one or more chunks keyed by chunk ID.
	// Chunk IDs must be unique within the collection; adding a chunk whose
	// ID already exists returns ErrDuplicateKey and persists nothing from
	// the batch.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id string) (*core.Chunk, error)

	// Count returns the number of chunks in the collection.
	Count(ctx context.Context) (int, error)

	// FindSimilar returns up to limit chunks ranked by descending vector
	// similarity to the query vector, optionally restricted to chunks whose
	// metadata matches every key/value pair in where exactly. Scores are
	// dot products of unit vectors and may legitimately be negative.
	FindSimilar(ctx context.Context, vector []float32, limit int, where map[string]string) ([]*core.SearchResult, error)

	// ForEach calls fn for every chunk in the collection in stable
	// (key-ordered) iteration order. Returning an error from fn stops the
	// iteration and propagates the error.
	ForEach(ctx context.Context, fn func(chunk *core.Chunk) error) error

	// Reset drops every chunk from the collection. Destructive and
	// unrecoverable without re-ingestion.
	Reset(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
