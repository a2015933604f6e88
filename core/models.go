package core

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a content-based identity for a chunk's text.
// It is computed over normalized content so that two chunks with the same
// text (modulo case and whitespace) collapse to the same fingerprint.
type Fingerprint uint64

// FingerprintOf computes a deterministic fingerprint from text content using
// BLAKE2b hashing. Identical content always produces identical fingerprints.
func FingerprintOf(text string) Fingerprint {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(normalized))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// SearchMethod identifies which retrieval path produced a result.
type SearchMethod string

const (
	// SearchMethodSemantic marks results from embedding similarity search.
	SearchMethodSemantic SearchMethod = "semantic"
	// SearchMethodKeyword marks results from literal keyword matching.
	SearchMethodKeyword SearchMethod = "keyword"
)

// Metadata keys attached to every chunk at creation time.
const (
	MetaSection  = "section"
	MetaLength   = "length"
	MetaChunkNum = "chunk_num"
)

// Chunk is an immutable unit of retrievable knowledge: a bounded-size,
// section-tagged segment of the source document plus its embedding vector.
// Chunks are created once during ingestion and never mutated; the Vector is
// populated by the ingestion pipeline before the chunk is persisted.
type Chunk struct {
	ID       string
	Content  string
	Section  string
	Seq      int               // zero-based sequence number within the section
	Vector   []float32         // unit-length embedding (populated at ingestion)
	Metadata map[string]string
}

// NewChunk builds a chunk for the given section and sequence number.
// The ID is derived from the section name and sequence number, so it is
// stable across rebuilds as long as source text and chunking parameters
// are unchanged.
func NewChunk(section string, seq int, content string) *Chunk {
	return &Chunk{
		ID:      fmt.Sprintf("%s_%d", section, seq),
		Content: content,
		Section: section,
		Seq:     seq,
		Metadata: map[string]string{
			MetaSection:  section,
			MetaLength:   strconv.Itoa(len(content)),
			MetaChunkNum: strconv.Itoa(seq),
		},
	}
}

// Fingerprint returns the content fingerprint of the chunk.
func (c *Chunk) Fingerprint() Fingerprint {
	return FingerprintOf(c.Content)
}

// MatchesFilter reports whether every key/value pair in the filter matches
// the chunk's metadata exactly. A nil or empty filter matches everything.
func (c *Chunk) MatchesFilter(filter map[string]string) bool {
	for k, want := range filter {
		if c.Metadata[k] != want {
			return false
		}
	}
	return true
}

// SearchResult wraps a chunk with its relevance score for one query.
// Results are ephemeral and never persisted. Higher scores are more
// relevant; semantic scores derive from vector similarity and are not
// confined to [0,1].
type SearchResult struct {
	Chunk  *Chunk
	Score  float32
	Method SearchMethod
}

// CollectionInfo describes the state of an index collection. Used by
// setup and health-check code, not by retrieval itself.
type CollectionInfo struct {
	Name           string
	DocumentCount  int
	EmbeddingModel string
	StoragePath    string
}
