package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/campusrag/ai/mock"
	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/storage"
	badgerstore "github.com/poiesic/campusrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repo
}

func makeChunks(n int) []*core.Chunk {
	chunks := make([]*core.Chunk, n)
	for i := range chunks {
		chunks[i] = core.NewChunk("teachers", i,
			fmt.Sprintf("Teacher record number %d with details.", i))
	}
	return chunks
}

func TestNewPipelineValidation(t *testing.T) {
	repo := newTestRepo(t)

	_, err := NewPipeline(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngestPopulatesVectorsAndPersists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder(),
		WithBatchSize(10), WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	chunks := makeChunks(25)
	require.NoError(t, pipeline.Ingest(ctx, chunks))

	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Vector, "chunk %s missing vector", chunk.ID)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	stored, err := repo.GetChunk(ctx, chunks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, chunks[0].Vector, stored.Vector)
}

func TestIngestEmbeddingFailurePersistsNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model not loaded")
	}

	pipeline, err := NewPipeline(repo, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	err = pipeline.Ingest(ctx, makeChunks(10))
	assert.ErrorIs(t, err, ErrEmbeddingFailed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "failed ingestion must not persist chunks")
}

func TestIngestPartialBatchFailurePersistsNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("rate limited")
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 8)
		}
		return vectors, nil
	}

	// One worker serializes the batches so exactly the second one fails.
	pipeline, err := NewPipeline(repo, embedder,
		WithBatchSize(5), WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	err = pipeline.Ingest(ctx, makeChunks(15))
	assert.ErrorIs(t, err, ErrEmbeddingFailed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestVectorCountMismatch(t *testing.T) {
	repo := newTestRepo(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	pipeline, err := NewPipeline(repo, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	err = pipeline.Ingest(context.Background(), makeChunks(3))
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestIngestEmptyInput(t *testing.T) {
	repo := newTestRepo(t)

	pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer pipeline.Release()

	assert.ErrorIs(t, pipeline.Ingest(context.Background(), nil), ErrNoChunks)
}

func TestIngestInvalidChunkRejectedUpfront(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(repo, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	chunks := makeChunks(2)
	chunks = append(chunks, core.NewChunk("teachers", 2, ""))

	err = pipeline.Ingest(ctx, chunks)
	assert.ErrorIs(t, err, core.ErrInvalidChunk)
	// Validation happens before any embedding call.
	assert.Equal(t, 0, embedder.CallCount())
}
