package campusrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "vector_db", cfg.DBPath)
	assert.Equal(t, "college_knowledge", cfg.CollectionName)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.InDelta(t, 0.35, cfg.AcceptanceFloor, 0.001)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/test_db")
	t.Setenv(EnvChunkSize, "500")
	t.Setenv(EnvChunkOverlap, "50")
	t.Setenv(EnvMaxResults, "10")
	t.Setenv(EnvAcceptanceFloor, "0.5")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test_db", cfg.DBPath)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 10, cfg.MaxResults)
	assert.InDelta(t, 0.5, cfg.AcceptanceFloor, 0.001)
}

func TestFromEnvInvalidInteger(t *testing.T) {
	t.Setenv(EnvChunkSize, "not-a-number")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, false},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, false},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, false},
		{"zero max results", func(c *Config) { c.MaxResults = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
