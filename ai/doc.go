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


// Package ai provides abstractions for the embedding services used by
// campusrag.
//
// The package defines the Embedder interface, which generates vector
// embeddings from text, and keeps the retrieval core independent of any
// concrete embedding backend.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder interface
// to enforce abstraction; the mock constructor returns a concrete type so
// that tests can inject behavior and make call-count assertions.
//
// All embedders returned by this package produce unit-length vectors, so the
// dot product of a query vector and a chunk vector is their cosine
// similarity.
package ai
