package ingestion

import "errors"

var (
	// ErrRepositoryRequired indicates a nil repository was passed to a constructor.
	ErrRepositoryRequired = errors.New("chunk repository is required")

	// ErrEmbedderRequired indicates a nil embedder was passed to a constructor.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrNoChunks indicates an ingest call with nothing to ingest.
	ErrNoChunks = errors.New("no chunks to ingest")

	// ErrEmbeddingFailed wraps embedding errors during ingestion.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
