package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/storage"
)

const (
	// DefaultKeywordThreshold is the minimum normalized keyword score a
	// chunk must exceed to be returned.
	DefaultKeywordThreshold float32 = 0.5

	capitalizedWeight float32 = 2.0
	plainWeight       float32 = 1.0
	minWordLength             = 2
)

// KeywordMatcher finds chunks containing literal query terms. It exists to
// catch exact names, phone numbers and designations that embedding search
// blurs over.
type KeywordMatcher struct {
	repo      storage.ChunkRepository
	threshold float32
	logger    *slog.Logger
}

// NewKeywordMatcher creates a matcher over the given repository.
func NewKeywordMatcher(repo storage.ChunkRepository, threshold float32, logger *slog.Logger) (*KeywordMatcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultKeywordThreshold
	}
	return &KeywordMatcher{repo: repo, threshold: threshold, logger: logger}, nil
}

// Search scans every chunk and scores it against the query's words.
//
// A capitalized word longer than two characters contributes 2.0 when the
// chunk contains it, any other word longer than two characters contributes
// 1.0, and the sum is divided by the total number of query words (short
// words included, so noisy queries dilute their own matches). Chunks whose
// score exceeds the threshold are returned in descending score order.
func (m *KeywordMatcher) Search(ctx context.Context, query string, limit int, where map[string]string) ([]*core.SearchResult, error) {
	words := queryWords(query)
	if len(words) == 0 {
		return nil, nil
	}
	total := float32(len(words))

	var results []*core.SearchResult
	err := m.repo.ForEach(ctx, func(chunk *core.Chunk) error {
		if !chunk.MatchesFilter(where) {
			return nil
		}

		content := strings.ToLower(chunk.Content)
		var score float32
		for _, word := range words {
			if len(word) <= minWordLength {
				continue
			}
			if !strings.Contains(content, strings.ToLower(word)) {
				continue
			}
			if hasUpper(word) {
				score += capitalizedWeight
			} else {
				score += plainWeight
			}
		}

		score /= total
		if score > m.threshold {
			results = append(results, &core.SearchResult{
				Chunk:  chunk,
				Score:  score,
				Method: core.SearchMethodKeyword,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	m.logger.Debug("keyword search complete",
		"query", query, "matches", len(results))
	return results, nil
}
