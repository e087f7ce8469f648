package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/foods_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 24*time.Hour, cfg.RetryCooldown)
	assert.Equal(t, 8*time.Second, cfg.NutritionAPITimeout)
	assert.Equal(t, 3*time.Second, cfg.NutritionAPICallDelay)
	assert.InDelta(t, 0.20, cfg.AtwaterTolerance, 1e-9)
	assert.InDelta(t, 0.50, cfg.AtwaterAlcoholTolerance, 1e-9)
	assert.InDelta(t, 80.0, cfg.DeepConfidenceFloor, 1e-9)
	assert.InDelta(t, 30.0, cfg.NormalizerMinServingG, 1e-9)
	assert.InDelta(t, 500.0, cfg.NormalizerMaxServingG, 1e-9)
	assert.Equal(t, 5, cfg.SemanticNeighbors)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/foods_test")
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("NUTRITION_API_CALL_DELAY", "0s")
	t.Setenv("ATWATER_TOLERANCE", "0.10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.NutritionAPICallDelay)
	assert.InDelta(t, 0.10, cfg.AtwaterTolerance, 1e-9)
}
