// Package search implements hybrid retrieval over the chunk corpus.
//
// Two independent passes run for every query. The semantic pass embeds the
// query and ranks chunks by vector similarity; the keyword pass scans chunk
// text for literal query terms, weighting capitalized words (usually proper
// nouns) double. The combiner merges both lists, deduplicating by content
// fingerprint with keyword matches winning ties, because a chunk that
// literally contains the asked-for name is almost always the right answer.
package search
