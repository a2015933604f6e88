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

package campusrag

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/poiesic/campusrag/chunker"
	"github.com/poiesic/campusrag/retrieval"
)

// Environment variable names recognized by FromEnv.
const (
	EnvDataFile        = "DATA_FILE"
	EnvDBPath          = "VECTOR_DB_PATH"
	EnvCollectionName  = "COLLECTION_NAME"
	EnvEmbeddingModel  = "EMBEDDING_MODEL"
	EnvEmbeddingHost   = "EMBEDDING_HOST"
	EnvChunkSize       = "CHUNK_SIZE"
	EnvChunkOverlap    = "CHUNK_OVERLAP"
	EnvMaxResults      = "MAX_RETRIEVAL_RESULTS"
	EnvAcceptanceFloor = "SIMILARITY_THRESHOLD"
)

// ErrInvalidConfig wraps configuration validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of the system. Zero values are filled in by
// DefaultConfig; FromEnv layers environment overrides on top.
type Config struct {
	// DataFile is the path to the source knowledge-base document.
	DataFile string

	// DBPath is the BadgerDB directory. Empty means in-memory.
	DBPath string

	// CollectionName labels the index in status output.
	CollectionName string

	// EmbeddingModel and EmbeddingHost configure the embedding service.
	EmbeddingModel string
	EmbeddingHost  string

	// ChunkSize and ChunkOverlap control document splitting.
	ChunkSize    int
	ChunkOverlap int

	// MaxResults caps the number of chunks returned per query.
	MaxResults int

	// AcceptanceFloor is the minimum top score before query expansion kicks in.
	AcceptanceFloor float32
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		DataFile:        "data/college_info.txt",
		DBPath:          "vector_db",
		CollectionName:  "college_knowledge",
		EmbeddingModel:  "all-minilm",
		EmbeddingHost:   "http://localhost:11434/v1",
		ChunkSize:       chunker.DefaultChunkSize,
		ChunkOverlap:    chunker.DefaultChunkOverlap,
		MaxResults:      5,
		AcceptanceFloor: retrieval.DefaultAcceptanceFloor,
	}
}

// FromEnv builds a Config from defaults plus environment overrides.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvCollectionName); v != "" {
		cfg.CollectionName = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv(EnvEmbeddingHost); v != "" {
		cfg.EmbeddingHost = v
	}

	var err error
	if cfg.ChunkSize, err = intEnv(EnvChunkSize, cfg.ChunkSize); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = intEnv(EnvChunkOverlap, cfg.ChunkOverlap); err != nil {
		return nil, err
	}
	if cfg.MaxResults, err = intEnv(EnvMaxResults, cfg.MaxResults); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvAcceptanceFloor); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvAcceptanceFloor, err)
		}
		cfg.AcceptanceFloor = float32(f)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
	}
	return n, nil
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidConfig)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrInvalidConfig)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("%w: max results must be positive", ErrInvalidConfig)
	}
	return nil
}
