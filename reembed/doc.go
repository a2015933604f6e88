// Package reembed recomputes chunk embeddings in place, for use after an
// embedding model change. The old index stays intact until every chunk has
// a fresh vector; only then is the collection swapped.
package reembed
