package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusrag/ai"
	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
//
// Returns the storage.ChunkRepository interface to enforce abstraction.
func NewChunkRepository(backend *Backend) (storage.ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close releases resources. ChunkRepository has no resources of its own;
// the backend is closed by its owner.
func (r *ChunkRepository) Close() error {
	return nil
}

// AddChunks persists one or more chunks keyed by chunk ID.
// The whole batch is written in one transaction: a duplicate ID anywhere in
// the batch aborts the write and nothing is persisted.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}

			key := makeChunkKey(chunk.ID)
			if _, err := tx.Get(key); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id string) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkKey(id))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalChunk(val)
			return err
		})
	}, false)
	return result, err
}

// Count returns the number of chunks in the collection.
func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.ForEach(ctx, func(*core.Chunk) error {
		count++
		return nil
	})
	return count, err
}

// FindSimilar scans every stored chunk, scoring it by the dot product of
// its vector with the query vector, and returns up to limit results in
// descending score order. A non-empty where filter restricts the scan to
// chunks whose metadata matches exactly.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, limit int, where map[string]string) ([]*core.SearchResult, error) {
	var results []*core.SearchResult

	err := r.ForEach(ctx, func(chunk *core.Chunk) error {
		// Skip chunks without embeddings
		if len(chunk.Vector) == 0 {
			return nil
		}
		if !chunk.MatchesFilter(where) {
			return nil
		}

		results = append(results, &core.SearchResult{
			Chunk:  chunk,
			Score:  ai.DotProduct(vector, chunk.Vector),
			Method: core.SearchMethodSemantic,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stable sort keeps the key-ordered scan order for equal scores, which
	// makes repeated identical queries return identical orderings.
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ForEach iterates every chunk in key order.
func (r *ChunkRepository) ForEach(ctx context.Context, fn func(chunk *core.Chunk) error) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}

			if err := fn(chunk); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Reset drops every chunk from the collection.
func (r *ChunkRepository) Reset(ctx context.Context) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	r.backend.logger.Warn("resetting chunk collection, all chunks will be dropped")
	return r.backend.DropAll()
}
