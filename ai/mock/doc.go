// Package mock provides test doubles for the ai package interfaces.
//
// MockEmbedder generates deterministic embeddings from text hashes by
// default, and supports behavior injection through function fields for
// tests that need to control similarity relationships directly.
package mock
