package badger

import "github.com/poiesic/campusrag/storage"

// NewMemoryRepository opens an in-memory backend with a chunk repository on
// top of it. Intended for tests; the caller must close the backend.
func NewMemoryRepository() (storage.ChunkRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}
	repo, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return repo, backend, nil
}
