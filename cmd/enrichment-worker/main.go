package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/app"
	"github.com/fitstack/food-enrichment/internal/platform/config"
	db "github.com/fitstack/food-enrichment/internal/storage"
)

func main() {
	mode := flag.String("mode", "serve", "Service mode (serve, once)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.PostgresDSN, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	application := app.New(cfg, database, &logger)

	if err := runMode(ctx, application, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode string) error {
	switch mode {
	case "serve":
		// Health/metrics/trigger server runs alongside the poll loop.
		go func() {
			if err := application.StartHealthServer(ctx); err != nil {
				log.Printf("health check server error: %v", err)
			}
		}()

		return application.RunWorker(ctx)
	case "once":
		return application.RunOnce(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[serve|once]", os.Args[0])

		return nil
	}
}
