package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	redisstorage "github.com/gofiber/storage/redis/v3"

	"github.com/aviranmz/thedude/internal/agent"
	"github.com/aviranmz/thedude/internal/analytics"
	"github.com/aviranmz/thedude/internal/clock"
	"github.com/aviranmz/thedude/internal/config"
	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/jobs"
	"github.com/aviranmz/thedude/internal/llm"
	"github.com/aviranmz/thedude/internal/logging"
	"github.com/aviranmz/thedude/internal/metrics"
	"github.com/aviranmz/thedude/internal/models"
	"github.com/aviranmz/thedude/internal/providers"
	"github.com/aviranmz/thedude/internal/redirect"
	"github.com/aviranmz/thedude/internal/search"
	"github.com/aviranmz/thedude/internal/server"
)

func main() {
	cfg := config.Load()
	log := logging.Setup("thedude", cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations completed")

	if cfg.IsDev() {
		if err := database.SeedDevAffiliates(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to seed dev affiliates")
		}
	}

	metrics.Init(database)

	// Click event sink: Kafka when brokers are configured, structured logs
	// otherwise.
	var sink analytics.Sink = analytics.NewLogSink(log)
	if cfg.KafkaBrokers != "" {
		kafkaSink := analytics.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaClickTopic, log)
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info().Str("topic", cfg.KafkaClickTopic).Msg("kafka click sink enabled")
	}

	registry := redirect.NewRegistry(database, sink, clock.RealClock{}, cfg.BaseURL, log)

	// Affiliate config source, cached in redis when available.
	var configSource search.ConfigSource = search.NewDBConfigSource(database)
	var limiterStore *redisstorage.Storage
	if cfg.RedisURL != "" {
		limiterStore = redisstorage.New(redisstorage.Config{URL: cfg.RedisURL})
		defer limiterStore.Close()
		configSource = search.NewCachedConfigSource(configSource, limiterStore, 5*time.Minute, log)
		log.Info().Msg("redis cache enabled")
	}

	adapters := map[models.Category]search.Adapter{
		models.CategoryFlight:    providers.NewFlightAdapter(cfg.ProviderTimeout),
		models.CategoryHotel:     providers.NewHotelAdapter(cfg.ProviderTimeout),
		models.CategoryCar:       providers.NewCarAdapter(),
		models.CategoryInsurance: providers.NewInsuranceAdapter(),
		models.CategoryESIM:      providers.NewESIMAdapter(),
	}

	aggregator := search.NewAggregator(configSource, adapters, registry, search.Options{
		RedirectTTL: cfg.RedirectTTL,
		MaxClicks:   cfg.RedirectMaxClick,
		Timeout:     cfg.ProviderTimeout,
	}, log)

	// Conversational planner, enabled only when an LLM backend is configured.
	var planner *agent.Service
	if provider, err := llm.New(cfg); err != nil {
		log.Warn().Err(err).Msg("agent endpoint disabled")
	} else {
		planner = agent.NewService(provider, database, aggregator, clock.RealClock{}, log)
		log.Info().Str("provider", provider.Name()).Msg("agent planner enabled")
	}

	// Background sweep of long-expired redirects.
	cleaner := jobs.NewRedirectCleaner(database, clock.RealClock{}, time.Hour, 30*24*time.Hour, log)
	go cleaner.Start(ctx)

	// HTTP server
	var limiterBackend fiber.Storage
	if limiterStore != nil {
		limiterBackend = limiterStore
	}
	srv := server.New(cfg, limiterBackend, log)
	srv.RegisterRoutes(database, registry, aggregator, planner)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}
