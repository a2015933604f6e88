// Package retrieval orchestrates query answering on top of hybrid search.
//
// A query is classified by intent: routed to a knowledge-base section when
// a trigger keyword matches, or flagged as person-focused when it names an
// individual. Person queries that score poorly get a second chance through
// a battery of reformulations ("<name> teacher", "<name> contact", ...);
// the first reformulation whose results verifiably mention the person wins.
// This recovers lookups for people the embedding model has never seen.
package retrieval
