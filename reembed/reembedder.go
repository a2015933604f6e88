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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/campusrag/ai"
	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of chunks to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed batches
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder recomputes every chunk embedding in a collection, typically
// after switching embedding models. Chunks are immutable in storage, so the
// rewrite happens as one swap: embed everything first, then reset the
// collection and write the refreshed chunks back in a single batch. A
// failure before the swap leaves the old index fully intact.
type Reembedder struct {
	repo     storage.ChunkRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ChunkRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reembedder{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
	}
}

// Run executes the reembedding operation.
func (r *Reembedder) Run(ctx context.Context) error {
	var chunks []*core.Chunk
	err := r.repo.ForEach(ctx, func(chunk *core.Chunk) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	total := len(chunks)
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in collection (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		if err := r.embedBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to reembed batch at chunk %d: %w", start, err)
		}

		processed += len(batch)
		tracker.Update(processed)
	}

	// Swap: every chunk now carries a fresh vector, replace the collection.
	if err := r.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	if err := r.repo.AddChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("failed to rewrite chunks: %w", err)
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

func (r *Reembedder) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return err
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: got %d for %d texts",
			ErrVectorCountMismatch, len(vectors), len(batch))
	}

	for i, chunk := range batch {
		chunk.Vector = ai.NormalizeVector(vectors[i])
	}
	return nil
}
