// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/campusrag/ai"
	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/storage"
)

const (
	// DefaultPoolSize bounds concurrent embedding batches.
	DefaultPoolSize = 4
	// DefaultBatchSize is the number of chunk texts per embedding request.
	DefaultBatchSize = 32
)

// Pipeline embeds chunks and persists them. Ingestion is all-or-nothing:
// every chunk is validated and embedded before anything is written, so a
// failure anywhere leaves the repository untouched.
type Pipeline struct {
	repo         storage.ChunkRepository
	embedder     ai.Embedder
	pool         *ants.Pool
	batchSize    int
	batchWorkers int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPoolSize sets the number of concurrent embedding workers.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.batchWorkers = size
		}
	}
}

// WithBatchSize sets the number of chunks embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

// WithLogger sets the pipeline's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates an ingestion pipeline over the repository and embedder.
// Call Release when done to free the worker pool.
func NewPipeline(repo storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		repo:         repo,
		embedder:     embedder,
		batchSize:    DefaultBatchSize,
		batchWorkers: DefaultPoolSize,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	pool, err := ants.NewPool(p.batchWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	p.pool = pool
	return p, nil
}

// Release frees the worker pool. The pipeline must not be used afterwards.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Ingest validates, embeds, and persists the chunks.
//
// Chunks are embedded in batches on the worker pool. If any batch fails,
// the first error is returned wrapped in ErrEmbeddingFailed and nothing is
// persisted. On success every chunk carries a unit-length vector and the
// whole set is written in one repository call.
func (p *Pipeline) Ingest(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			p.embedBatch(ctx, batch, setErr)
		})
		if submitErr != nil {
			wg.Done()
			setErr(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("%w: %w", ErrEmbeddingFailed, firstErr)
	}

	if err := p.repo.AddChunks(ctx, chunks...); err != nil {
		return err
	}
	p.logger.Info("ingestion complete", "chunks", len(chunks))
	return nil
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Chunk, setErr func(error)) {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		setErr(err)
		return
	}
	if len(vectors) != len(batch) {
		setErr(fmt.Errorf("embedder returned %d vectors for %d texts",
			len(vectors), len(batch)))
		return
	}

	for i, chunk := range batch {
		chunk.Vector = vectors[i]
	}
}
