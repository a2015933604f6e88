// Package chunker splits a monolithic source document into named,
// bounded-size, overlapping chunks suitable for embedding and retrieval.
//
// The chunker prefers structure-aware splitting: the source document has
// named sections delimited by recognizable markers (declared as SectionRule
// data), and only sections larger than the chunk size are subdivided. When
// the document does not match the expected structure, the chunker falls
// back to size-only splitting under a generic section label so that
// ingestion still produces a usable corpus.
package chunker
