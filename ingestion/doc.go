// Package ingestion turns chunked text into a persisted, embedded corpus.
//
// The pipeline batches chunk texts, embeds the batches concurrently on a
// bounded worker pool, and writes everything in a single repository call
// only after every embedding succeeded. A partial index silently returns
// wrong answers, so ingestion would rather fail loudly than persist half
// a corpus.
package ingestion
