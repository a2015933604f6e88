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

package campusrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/campusrag/ai"
	"github.com/poiesic/campusrag/chunker"
	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/ingestion"
	"github.com/poiesic/campusrag/retrieval"
	"github.com/poiesic/campusrag/search"
	"github.com/poiesic/campusrag/storage"
)

// System wires the full pipeline together: chunking, ingestion, hybrid
// search, and query orchestration over one repository and embedder. The
// repository and embedder are injected so callers choose the backend (and
// tests inject in-memory storage and a fake embedder).
type System struct {
	cfg          *Config
	repo         storage.ChunkRepository
	embedder     ai.Embedder
	chunker      *chunker.Chunker
	pipeline     *ingestion.Pipeline
	orchestrator *retrieval.Orchestrator
	logger       *slog.Logger
}

// NewSystem builds a System from the configuration and injected dependencies.
func NewSystem(cfg *Config, repo storage.ChunkRepository, embedder ai.Embedder) (*System, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(repo, embedder)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(repo, embedder)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	orchestrator, err := retrieval.NewOrchestrator(searcher,
		retrieval.WithAcceptanceFloor(cfg.AcceptanceFloor))
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &System{
		cfg:          cfg,
		repo:         repo,
		embedder:     embedder,
		chunker:      ch,
		pipeline:     pipeline,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}, nil
}

// Setup prepares the index from the configured data file. If the collection
// already has chunks and rebuild is false, Setup is a no-op. With rebuild
// the existing collection is dropped and re-ingested from scratch.
func (s *System) Setup(ctx context.Context, rebuild bool) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 && !rebuild {
		s.logger.Info("index already populated, skipping setup", "chunks", count)
		return nil
	}
	if count > 0 {
		s.logger.Info("rebuilding index", "chunks", count)
		if err := s.repo.Reset(ctx); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(s.cfg.DataFile)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	chunks, err := s.chunker.Chunk(string(data))
	if err != nil {
		return err
	}
	return s.pipeline.Ingest(ctx, chunks)
}

// AddDocuments chunks and ingests additional document text into the index.
func (s *System) AddDocuments(ctx context.Context, text string) error {
	chunks, err := s.chunker.Chunk(text)
	if err != nil {
		return err
	}
	return s.pipeline.Ingest(ctx, chunks)
}

// Retrieve answers a query with up to maxResults chunks. maxResults <= 0
// uses the configured default.
func (s *System) Retrieve(ctx context.Context, query string, maxResults int) ([]*core.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = s.cfg.MaxResults
	}
	return s.orchestrator.Retrieve(ctx, query, maxResults)
}

// Info reports the current state of the collection.
func (s *System) Info(ctx context.Context) (*core.CollectionInfo, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &core.CollectionInfo{
		Name:           s.cfg.CollectionName,
		DocumentCount:  count,
		EmbeddingModel: s.cfg.EmbeddingModel,
		StoragePath:    s.cfg.DBPath,
	}, nil
}

// Reset drops every chunk from the index.
func (s *System) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx)
}

// Close releases the system's resources. The injected repository and
// embedder are owned by the caller and are not closed here.
func (s *System) Close() error {
	s.pipeline.Release()
	return nil
}
