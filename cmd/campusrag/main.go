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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/campusrag"
	"github.com/poiesic/campusrag/ai"
	"github.com/poiesic/campusrag/ai/openai"
	"github.com/poiesic/campusrag/reembed"
	"github.com/poiesic/campusrag/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "campusrag",
		Usage: "Hybrid retrieval engine for an institutional knowledge base",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Build the index from the knowledge-base document",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "data",
						Usage: "Path to the source document",
					},
					&cli.BoolFlag{
						Name:  "rebuild",
						Usage: "Drop the existing index and re-ingest from scratch",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Query the knowledge base",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of chunks to return",
					},
				),
			},
			{
				Name:   "info",
				Usage:  "Show index status",
				Action: infoCommand,
				Flags:  commonFlags(),
			},
			{
				Name:   "reset",
				Usage:  "Drop every chunk from the index",
				Action: resetCommand,
				Flags:  commonFlags(),
			},
			{
				Name:   "reembed",
				Usage:  "Recompute all chunk embeddings with the configured model",
				Action: reembedCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batches",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

// setup loads .env (when present), configures logging, and runs before
// every command.
func setup(c *cli.Context) error {
	// Missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig builds the configuration from environment plus flag overrides.
func loadConfig(c *cli.Context) (*campusrag.Config, error) {
	cfg, err := campusrag.FromEnv()
	if err != nil {
		return nil, err
	}
	if v := c.String("db"); v != "" {
		cfg.DBPath = v
	}
	if v := c.String("embedding-host"); v != "" {
		cfg.EmbeddingHost = v
	}
	if v := c.String("embedding-model"); v != "" {
		cfg.EmbeddingModel = v
	}
	if c.IsSet("data") {
		cfg.DataFile = c.String("data")
	}
	if c.IsSet("max-results") {
		cfg.MaxResults = c.Int("max-results")
	}
	return cfg, nil
}

// openSystem wires storage, embedder and the retrieval system from config.
// The returned cleanup function closes everything in reverse order.
func openSystem(cfg *campusrag.Config) (*campusrag.System, func(), error) {
	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create repository: %w", err)
	}

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
	))
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	sys, err := campusrag.NewSystem(cfg, repo, embedder)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, nil, err
	}

	cleanup := func() {
		sys.Close()
		repo.Close()
		backend.Close()
	}
	return sys, cleanup, nil
}

func ingestCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	sys, cleanup, err := openSystem(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sys.Setup(context.Background(), c.Bool("rebuild")); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	info, err := sys.Info(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Index ready: %d chunks in collection %q (%s)\n",
		info.DocumentCount, info.Name, info.StoragePath)
	return nil
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: campusrag ask <question>")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	sys, cleanup, err := openSystem(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := sys.Retrieve(context.Background(), query, cfg.MaxResults)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No relevant information found.")
		return nil
	}

	for i, res := range results {
		fmt.Printf("%d. [%s %s score=%.3f]\n   %s\n",
			i+1, res.Method, res.Chunk.Section, res.Score, res.Chunk.Content)
	}
	return nil
}

func infoCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	sys, cleanup, err := openSystem(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := sys.Info(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Collection:      %s\n", info.Name)
	fmt.Printf("Chunks:          %d\n", info.DocumentCount)
	fmt.Printf("Embedding model: %s\n", info.EmbeddingModel)
	fmt.Printf("Storage path:    %s\n", info.StoragePath)
	return nil
}

func resetCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	sys, cleanup, err := openSystem(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sys.Reset(context.Background()); err != nil {
		return err
	}
	fmt.Println("Index reset.")
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
	))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
