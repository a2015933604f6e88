package badger

import "fmt"

// Key prefix for chunk records. Chunk IDs are section-derived strings, so
// the primary key is simply prefix:id; badger's lexicographic iteration
// over this prefix gives a stable corpus scan order.
const chunkPrefix = "chunk"

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", chunkPrefix, id))
}
