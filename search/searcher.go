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

package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/campusrag/ai"
	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/storage"
)

// DefaultKeywordBoost is added to a keyword result's score when combining,
// so literal matches outrank semantically-near-but-wrong chunks.
const DefaultKeywordBoost float32 = 0.2

// Searcher runs hybrid retrieval: semantic vector search and literal keyword
// matching over the same corpus, merged into one deduplicated ranking.
type Searcher struct {
	repo     storage.ChunkRepository
	embedder ai.Embedder
	keywords *KeywordMatcher
	boost    float32
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger used by the searcher and its keyword matcher.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// WithKeywordThreshold overrides the keyword matcher's inclusion threshold.
func WithKeywordThreshold(threshold float32) Option {
	return func(s *Searcher) {
		s.keywords.threshold = threshold
	}
}

// WithKeywordBoost overrides the score boost applied to keyword matches
// during combining.
func WithKeywordBoost(boost float32) Option {
	return func(s *Searcher) {
		s.boost = boost
	}
}

// NewSearcher creates a hybrid searcher over the repository and embedder.
func NewSearcher(repo storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	keywords, err := NewKeywordMatcher(repo, DefaultKeywordThreshold, nil)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		repo:     repo,
		embedder: embedder,
		keywords: keywords,
		boost:    DefaultKeywordBoost,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.keywords.logger = s.logger
	return s, nil
}

// Search runs a hybrid query and returns up to limit combined results.
func (s *Searcher) Search(ctx context.Context, query string, limit int, where map[string]string) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, where, noopMonitor{})
}

// SearchWithMonitor runs a hybrid query, reporting each phase to the monitor.
//
// Keyword results are ranked first: each gets a fixed score boost (capped at
// 1.0) and claims its chunk's content fingerprint. Semantic results are then
// appended only if their fingerprint is unclaimed, so a chunk found by both
// paths appears once, via the keyword path. An embedding failure is a hard
// error; the keyword pass alone is not a complete answer.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, where map[string]string, monitor Monitor) ([]*core.SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if monitor == nil {
		monitor = noopMonitor{}
	}
	monitor.Start(query)

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	semantic, err := s.repo.FindSimilar(ctx, vector, limit, where)
	if err != nil {
		return nil, err
	}
	monitor.AfterSemanticSearch(semantic)

	keyword, err := s.keywords.Search(ctx, query, limit, where)
	if err != nil {
		return nil, err
	}
	monitor.AfterKeywordSearch(keyword)

	combined := s.combine(semantic, keyword, limit)
	monitor.Finish(combined)

	s.logger.Debug("hybrid search complete",
		"query", query,
		"semantic", len(semantic),
		"keyword", len(keyword),
		"combined", len(combined))
	return combined, nil
}

func (s *Searcher) combine(semantic, keyword []*core.SearchResult, limit int) []*core.SearchResult {
	seen := make(map[core.Fingerprint]struct{}, len(keyword)+len(semantic))
	combined := make([]*core.SearchResult, 0, len(keyword)+len(semantic))

	for _, res := range keyword {
		fp := res.Chunk.Fingerprint()
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}

		boosted := res.Score + s.boost
		if boosted > 1.0 {
			boosted = 1.0
		}
		combined = append(combined, &core.SearchResult{
			Chunk:  res.Chunk,
			Score:  boosted,
			Method: res.Method,
		})
	}

	for _, res := range semantic {
		fp := res.Chunk.Fingerprint()
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		combined = append(combined, res)
	}

	// Stable so equal scores keep keyword-before-semantic order, which keeps
	// repeated identical queries byte-for-byte reproducible.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})

	if limit > 0 && len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}
