// Package campusrag is a hybrid retrieval engine over a single
// institution's knowledge base. It chunks a source document along its
// section structure, embeds the chunks into a local vector index, and
// answers queries with a combination of semantic similarity, literal
// keyword matching, and query reformulation for person lookups.
//
// The System type is the top-level entry point; cmd/campusrag wraps it in
// a CLI.
package campusrag
