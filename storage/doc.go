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


// Package storage provides the storage abstraction layer for campusrag.
//
// The ChunkRepository interface decouples the retrieval logic from the
// storage implementation. The badger sub-package provides the production
// BadgerDB backend; tests use its in-memory mode.
//
// Public constructors in implementation packages return the
// storage.ChunkRepository interface so consumers never couple to backend
// specifics:
//
//	repo, err := badger.NewChunkRepository(backend)
//
// Vector search is a linear scan with a dot-product against every stored
// chunk. That is a deliberate design point: the corpus is tens to low
// hundreds of chunks, and exact scan beats approximate index structures at
// this scale.
package storage
