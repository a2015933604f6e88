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

package retrieval

import (
	"context"
	"log/slog"

	"github.com/poiesic/campusrag/core"
	"github.com/poiesic/campusrag/search"
)

// DefaultAcceptanceFloor is the minimum top-result score for a result set to
// be accepted without trying reformulated queries.
const DefaultAcceptanceFloor float32 = 0.35

// Orchestrator drives retrieval for one query: classify, search the routed
// section, fall back to the full corpus, and for person queries run a
// battery of reformulations until one is confirmed to describe the person.
type Orchestrator struct {
	searcher    *search.Searcher
	routes      []Route
	acceptFloor float32
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRoutes replaces the default section routing table.
func WithRoutes(routes []Route) Option {
	return func(o *Orchestrator) {
		o.routes = routes
	}
}

// WithAcceptanceFloor overrides the score floor for accepting a result set.
func WithAcceptanceFloor(floor float32) Option {
	return func(o *Orchestrator) {
		o.acceptFloor = floor
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the given hybrid searcher.
func NewOrchestrator(searcher *search.Searcher, opts ...Option) (*Orchestrator, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	o := &Orchestrator{
		searcher:    searcher,
		routes:      DefaultRoutes(),
		acceptFloor: DefaultAcceptanceFloor,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Retrieve answers a query with up to maxResults chunks.
//
// The primary attempt runs first: section-filtered if the query routes to a
// section, then unfiltered. A primary attempt whose top score clears the
// acceptance floor is returned as-is. Otherwise, for person-focused queries,
// each reformulated query runs in order; the first result set confirmed to
// mention the person's name wins. Errors on reformulated queries are logged
// and skipped, because the primary attempt already proved the pipeline
// works. If nothing confirms, the best-scoring attempt is returned, falling
// back to the primary results. An empty result set with a nil error means
// the corpus has nothing relevant.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, maxResults int) ([]*core.SearchResult, error) {
	c := Classify(query, o.routes)
	o.logger.Debug("query classified",
		"query", query, "intent", c.Intent, "section", c.Section)

	if c.Section != "" {
		where := map[string]string{core.MetaSection: c.Section}
		filtered, err := o.searcher.Search(ctx, query, maxResults, where)
		if err != nil {
			return nil, err
		}
		if accepted(filtered, o.acceptFloor) {
			o.logger.Debug("section-filtered results accepted", "section", c.Section)
			return filtered, nil
		}
	}

	primary, err := o.searcher.Search(ctx, query, maxResults, nil)
	if err != nil {
		return nil, err
	}
	if accepted(primary, o.acceptFloor) {
		return primary, nil
	}

	if c.Intent != IntentPerson {
		return primary, nil
	}

	tokens := NameTokens(CandidateName(query))
	var best []*core.SearchResult
	var bestScore float32

	for _, expanded := range ExpandPersonQuery(query) {
		results, err := o.searcher.Search(ctx, expanded, maxResults, nil)
		if err != nil {
			o.logger.Warn("expanded query failed, skipping",
				"query", expanded, "error", err)
			continue
		}
		if len(results) == 0 {
			continue
		}

		if confirmsAny(results, tokens) {
			o.logger.Debug("expanded query confirmed", "query", expanded)
			return results, nil
		}
		if best == nil || results[0].Score > bestScore {
			best = results
			bestScore = results[0].Score
		}
	}

	if best != nil {
		return best, nil
	}
	return primary, nil
}

func accepted(results []*core.SearchResult, floor float32) bool {
	return len(results) > 0 && results[0].Score >= floor
}

// confirmsAny reports whether any result's content mentions enough of the
// name tokens to count as describing the person.
func confirmsAny(results []*core.SearchResult, tokens []string) bool {
	for _, res := range results {
		if ConfirmsName(res.Chunk.Content, tokens) {
			return true
		}
	}
	return false
}
