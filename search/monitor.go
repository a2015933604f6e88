package search

import "github.com/poiesic/campusrag/core"

// Monitor observes the phases of a hybrid search. Implementations can log,
// trace, or collect metrics; all callbacks are invoked synchronously from
// the searching goroutine and must be cheap.
type Monitor interface {
	// Start is called once with the raw query before any work happens.
	Start(query string)

	// AfterSemanticSearch receives the semantic candidates before combining.
	AfterSemanticSearch(results []*core.SearchResult)

	// AfterKeywordSearch receives the keyword candidates before combining.
	AfterKeywordSearch(results []*core.SearchResult)

	// Finish receives the combined, deduplicated result set.
	Finish(results []*core.SearchResult)
}

type noopMonitor struct{}

func (noopMonitor) Start(string)                             {}
func (noopMonitor) AfterSemanticSearch([]*core.SearchResult) {}
func (noopMonitor) AfterKeywordSearch([]*core.SearchResult)  {}
func (noopMonitor) Finish([]*core.SearchResult)              {}
