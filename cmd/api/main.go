package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gift-exchange/internal/config"
	"gift-exchange/internal/database"
	"gift-exchange/internal/draw"
	"gift-exchange/internal/handler"
	"gift-exchange/internal/metrics"
	"gift-exchange/internal/model"
	"gift-exchange/internal/repository"
	"gift-exchange/internal/roster"
	"gift-exchange/internal/router"
	"gift-exchange/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting gift-exchange API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	participants, err := loadRoster(ctx, cfg, logger)
	if err != nil {
		return err
	}

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Metrics
	var recorder metrics.Recorder = metrics.NewNop()
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		recorder = metrics.NewPrometheus(prometheus.DefaultRegisterer, "")
		metricsHandler = promhttp.Handler()
	}

	solver := draw.NewSolver(nil)
	if cfg.Draw.Seed != 0 {
		solver = draw.NewSeededSolver(cfg.Draw.Seed)
		logger.Warn().Uint64("seed", cfg.Draw.Seed).Msg("draw seed set, completions are reproducible")
	}

	// Initialize services
	retention := time.Duration(cfg.Draw.MessageRetentionDays) * 24 * time.Hour
	shared := service.NewSharedState(repo, recorder, logger)
	drawService := service.NewDrawService(shared, participants, solver, recorder, logger)
	stateService := service.NewStateService(shared, participants, retention, logger)

	// Initialize HTTP handlers
	drawHandler := handler.NewDrawHandler(drawService, logger)
	stateHandler := handler.NewStateHandler(stateService, logger)

	// Initialize router
	mux := router.New(drawHandler, stateHandler, cfg.Auth.APIKey, metricsHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Int("participants", len(participants.Participants)).
			Str("store", cfg.Store.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadRoster reads the roster from S3 when enabled, falling back to the local
// file, and applies the exclusion policy.
func loadRoster(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*model.Roster, error) {
	policy, err := roster.ParsePolicy(cfg.Roster.ExclusionPolicy)
	if err != nil {
		return nil, err
	}

	fileLoader := roster.NewFileLoader(logger)
	var s3Loader roster.Loader

	if cfg.S3.Enabled {
		s3Loader, err = roster.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for the roster (S3 disabled)")
	}

	loader := roster.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	raw, err := loader.Load(ctx, cfg.Roster.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	participants, err := roster.Normalize(raw, policy, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}

	logger.Info().
		Int("participants", len(participants.Participants)).
		Str("policy", string(policy)).
		Msg("roster loaded")

	return participants, nil
}

// openStore connects the configured state backend. The returned func releases
// its connections.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.StateRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.CreateSchema(ctx, pool, cfg.Store.Table); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to create schema: %w", err)
		}
		repo := repository.NewPostgresStateRepository(pool, cfg.Store.Table, cfg.Store.Key, logger)
		return repo, pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			// Reads fall back to the last snapshot, so a cold redis is not fatal.
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis not reachable at startup")
		}
		repo := repository.NewRedisStateRepository(client, cfg.Store.Key, logger, repository.WithPrefix(cfg.Redis.Prefix))
		return repo, func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close redis client")
			}
		}, nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory state store, assignments are lost on restart")
		return repository.NewMemoryStateRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
