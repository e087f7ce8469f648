// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// the operational modes:
//
//   - Serve mode: poll loop processing batches on a fixed interval, plus
//     the HTTP surface (health, metrics, on-demand trigger)
//   - Once mode: process a single batch and exit, for cron-style callers
//
// Providers (nutrition API, embeddings, LLM) degrade to mocks when their
// credentials are absent, so the worker runs end to end locally.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/api"
	"github.com/fitstack/food-enrichment/internal/core/embeddings"
	"github.com/fitstack/food-enrichment/internal/core/llm"
	"github.com/fitstack/food-enrichment/internal/platform/config"
	"github.com/fitstack/food-enrichment/internal/platform/observability"
	"github.com/fitstack/food-enrichment/internal/platform/worker"
	"github.com/fitstack/food-enrichment/internal/process/enrichment"
	"github.com/fitstack/food-enrichment/internal/process/verification"
	db "github.com/fitstack/food-enrichment/internal/storage"
)

const backlogGaugeInterval = 30 * time.Second

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server with the
// on-demand trigger endpoint mounted.
func (a *App) StartHealthServer(ctx context.Context) error {
	trigger := api.NewTriggerHandler(a.newRunner(), a.logger)

	srv := observability.NewServerWithTrigger(a.database, a.cfg.HealthPort, trigger, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunWorker runs the poll loop until the context is canceled.
func (a *App) RunWorker(ctx context.Context) error {
	a.logger.Info().
		Int("batch_size", a.cfg.BatchSize).
		Dur("poll_interval", a.cfg.WorkerPollInterval).
		Msg("Starting enrichment worker")

	runner := a.newRunner()

	return worker.Loop(ctx, worker.Config{
		Name:         "enrichment",
		PollInterval: a.cfg.WorkerPollInterval,
		Logger:       a.logger,
		Process: func(ctx context.Context) error {
			observability.BatchesTotal.WithLabelValues("schedule").Inc()

			report := runner.Run(ctx, a.cfg.BatchSize, 0)
			if !report.Success {
				a.logger.Warn().Strs("errors", report.Errors).Msg("batch finished with errors")
			}

			return nil
		},
		PeriodicTasks: []worker.PeriodicTask{{
			Name:     "backlog-gauge",
			Interval: backlogGaugeInterval,
			Run:      a.refreshBacklogGauge,
		}},
	})
}

// RunOnce processes a single batch and returns; validation failures are a
// normal outcome, only infrastructure errors make this return non-nil.
func (a *App) RunOnce(ctx context.Context) error {
	report := a.newRunner().Run(ctx, a.cfg.BatchSize, 0)

	a.logger.Info().
		Int("processed", report.Processed).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Int("remaining", report.Remaining).
		Msg("single batch finished")

	if !report.Success {
		return fmt.Errorf("batch finished with %d failures: %v", report.Failed, report.Errors)
	}

	return nil
}

func (a *App) newRunner() *verification.Runner {
	normalizer := verification.NewNormalizer(a.cfg, a.logger)
	semantic := verification.NewSemanticValidator(a.newEmbeddingProvider(), a.database, a.cfg, a.logger)
	deep := verification.NewDeepValidator(a.newLLMClient(), a.cfg, a.logger)

	return verification.NewRunner(
		a.database,
		normalizer,
		a.newEnrichmentClient(),
		semantic,
		deep,
		a.cfg,
		a.logger,
	)
}

func (a *App) newEnrichmentClient() enrichment.Client {
	client := enrichment.NewHTTPClient(enrichment.HTTPConfig{
		BaseURL:        a.cfg.NutritionAPIBaseURL,
		APIKey:         a.cfg.NutritionAPIKey,
		AttemptTimeout: a.cfg.NutritionAPITimeout,
		CallDelay:      a.cfg.NutritionAPICallDelay,
		MaxRetries:     a.cfg.NutritionAPIMaxRetries,
	}, a.logger)

	if !client.IsAvailable() {
		a.logger.Warn().Msg("nutrition API key missing, lookups will report no match")
	}

	return client
}

func (a *App) newLLMClient() llm.Client {
	if a.cfg.LLMAPIKey == "" {
		a.logger.Warn().Msg("LLM API key missing, using mock deep-check client")

		return llm.NewMockClient()
	}

	return llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:    a.cfg.LLMAPIKey,
		Model:     a.cfg.LLMModel,
		RateLimit: a.cfg.LLMRateLimitRPS,
	}, a.logger)
}

func (a *App) newEmbeddingProvider() embeddings.Provider {
	if a.cfg.LLMAPIKey == "" {
		a.logger.Warn().Msg("LLM API key missing, using mock embedding provider")

		return embeddings.NewMockProvider(a.cfg.EmbeddingDimensions)
	}

	return embeddings.NewOpenAIProvider(embeddings.OpenAIConfig{
		APIKey:     a.cfg.LLMAPIKey,
		Model:      a.cfg.EmbeddingModel,
		Dimensions: a.cfg.EmbeddingDimensions,
		RateLimit:  a.cfg.EmbeddingRateLimitRPS,
	})
}

func (a *App) refreshBacklogGauge(ctx context.Context) {
	remaining, err := a.database.CountRemaining(ctx, a.cfg.RetryCooldown)
	if err != nil {
		a.logger.Warn().Err(err).Msg("refreshing backlog gauge failed")

		return
	}

	observability.PipelineBacklog.Set(float64(remaining))
}
