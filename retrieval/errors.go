package retrieval

import "errors"

// ErrSearcherRequired indicates a nil searcher was passed to a constructor.
var ErrSearcherRequired = errors.New("searcher is required")
