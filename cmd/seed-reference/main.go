// Command seed-reference loads a JSON file of authoritative foods,
// embeds each entry and upserts it into the reference corpus used by the
// semantic validator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/core/embeddings"
	"github.com/fitstack/food-enrichment/internal/platform/config"
	"github.com/fitstack/food-enrichment/internal/process/verification"
	db "github.com/fitstack/food-enrichment/internal/storage"
)

type seedEntry struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

func main() {
	file := flag.String("file", "reference_foods.json", "Path to the reference foods JSON file")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := loadEntries(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("failed to load reference file")
	}

	database, err := db.New(ctx, cfg.PostgresDSN, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	provider := newProvider(cfg, &logger)

	seeded := 0

	for _, entry := range entries {
		ref := domain.ReferenceFood{
			Name:     entry.Name,
			Category: entry.Category,
			Calories: entry.Calories,
			ProteinG: entry.ProteinG,
			CarbsG:   entry.CarbsG,
			FatG:     entry.FatG,
		}

		result, err := provider.GetEmbedding(ctx, verification.ReferenceSummary(ref))
		if err != nil {
			logger.Error().Err(err).Str("name", ref.Name).Msg("embedding failed, skipping entry")

			continue
		}

		if err := database.InsertReference(ctx, ref, result.Vector); err != nil {
			logger.Error().Err(err).Str("name", ref.Name).Msg("insert failed, skipping entry")

			continue
		}

		seeded++
	}

	total, err := database.CountReferences(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("counting corpus failed")
	}

	logger.Info().Int("seeded", seeded).Int("corpus_size", total).Msg("reference corpus seeded")
}

func loadEntries(path string) ([]seedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func newProvider(cfg *config.Config, logger *zerolog.Logger) embeddings.Provider {
	if cfg.LLMAPIKey == "" {
		logger.Warn().Msg("LLM API key missing, seeding with mock embeddings")

		return embeddings.NewMockProvider(cfg.EmbeddingDimensions)
	}

	return embeddings.NewOpenAIProvider(embeddings.OpenAIConfig{
		APIKey:     cfg.LLMAPIKey,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
		RateLimit:  cfg.EmbeddingRateLimitRPS,
	})
}
