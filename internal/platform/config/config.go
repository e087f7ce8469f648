// Package config loads pipeline configuration from the environment.
//
// Empirically chosen thresholds (Atwater tolerances, physics buffer,
// outlier bounds, deep-check confidence floor) are deliberately exposed as
// configuration rather than hard-coded so they can be recalibrated against
// a labeled dataset without a rebuild, and zeroed in tests.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Batch worker.
	BatchSize          int           `env:"BATCH_SIZE" envDefault:"5"`
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"2m"`
	RetryCooldown      time.Duration `env:"RETRY_COOLDOWN" envDefault:"24h"`

	// External nutrition reference API.
	NutritionAPIBaseURL    string        `env:"NUTRITION_API_BASE_URL" envDefault:"https://api.nal.usda.gov/fdc"`
	NutritionAPIKey        string        `env:"NUTRITION_API_KEY"`
	NutritionAPITimeout    time.Duration `env:"NUTRITION_API_TIMEOUT" envDefault:"8s"`
	NutritionAPICallDelay  time.Duration `env:"NUTRITION_API_CALL_DELAY" envDefault:"3s"`
	NutritionAPIMaxRetries uint          `env:"NUTRITION_API_MAX_RETRIES" envDefault:"2"`

	// LLM deep check.
	LLMAPIKey           string        `env:"LLM_API_KEY"`
	LLMModel            string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout          time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMRateLimitRPS     int           `env:"LLM_RATE_LIMIT_RPS" envDefault:"1"`
	DeepConfidenceFloor float64       `env:"DEEP_CONFIDENCE_FLOOR" envDefault:"80"`

	// Embedding service.
	EmbeddingModel        string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions   int           `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`
	EmbeddingTimeout      time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"15s"`
	EmbeddingRateLimitRPS int           `env:"EMBEDDING_RATE_LIMIT_RPS" envDefault:"2"`

	// Semantic validator.
	SemanticNeighbors   int     `env:"SEMANTIC_NEIGHBORS" envDefault:"5"`
	SemanticStdDevLimit float64 `env:"SEMANTIC_STDDEV_LIMIT" envDefault:"2.0"`

	// Deterministic validator thresholds.
	AtwaterTolerance        float64 `env:"ATWATER_TOLERANCE" envDefault:"0.20"`
	AtwaterAlcoholTolerance float64 `env:"ATWATER_ALCOHOL_TOLERANCE" envDefault:"0.50"`
	AtwaterMinCalories      float64 `env:"ATWATER_MIN_CALORIES" envDefault:"10"`
	PhysicsBufferG          float64 `env:"PHYSICS_BUFFER_G" envDefault:"5"`

	// Safe normalizer bounds.
	NormalizerMinServingG   float64 `env:"NORMALIZER_MIN_SERVING_G" envDefault:"30"`
	NormalizerMaxServingG   float64 `env:"NORMALIZER_MAX_SERVING_G" envDefault:"500"`
	NormalizerMaxMultiplier float64 `env:"NORMALIZER_MAX_MULTIPLIER" envDefault:"5.0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
