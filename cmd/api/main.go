package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skullcart/internal/cart"
	"skullcart/internal/checkout"
	"skullcart/internal/config"
	"skullcart/internal/database"
	"skullcart/internal/handler"
	"skullcart/internal/pricing"
	"skullcart/internal/router"

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
	logger.Info().Msg("starting skullcart widget backend")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select the cart storage backend
	storage, cleanup, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart storage: %w", err)
	}
	defer cleanup()

	// Restore the persisted cart; a missing or corrupt document just
	// means an empty cart.
	store := cart.NewStore(storage, logger)
	store.Load(ctx)

	// Load the pricing ruleset, falling back to built-in defaults.
	rules := pricing.LoadOrDefault(ctx, newRulesetLoader(ctx, cfg, logger), logger)
	engine := pricing.NewEngine(rules, logger)

	// Wire the payment-button boundary. The logging button stands in
	// for the storefront's payment SDK bridge.
	checkoutService := checkout.NewService(store, engine, checkout.NewLoggingButton(logger), logger)
	checkoutService.Refresh()

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(store, engine, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)

	// Initialize router
	mux := router.New(cartHandler, checkoutHandler, cfg.Auth.APIKey, logger)

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
			Str("storage_backend", cfg.Storage.Backend).
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStorage builds the configured cart storage backend and returns a
// cleanup function for whatever connections it opened.
func newStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cart.Storage, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.StorageFile:
		return cart.NewFileStorage(cfg.Storage.Path, logger), noop, nil

	case config.StorageMemory:
		logger.Warn().Msg("using in-memory cart storage, cart will not survive restarts")
		return cart.NewMemoryStorage(), noop, nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, err
		}
		storage, err := cart.NewPostgresStorage(ctx, pool, cfg.Storage.Key, logger)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return storage, pool.Close, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, noop, fmt.Errorf("failed to ping redis: %w", err)
		}
		return cart.NewRedisStorage(client, cfg.Storage.Key, logger), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// newRulesetLoader builds the pricing ruleset source: S3 with local
// file fallback when enabled, the local file alone otherwise, or nil
// when nothing is configured so the defaults apply.
func newRulesetLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) pricing.Loader {
	var fileLoader pricing.Loader
	if cfg.Pricing.RulesFile != "" {
		fileLoader = pricing.NewFileLoader(cfg.Pricing.RulesFile, logger)
	}

	if !cfg.S3.Enabled {
		return fileLoader
	}

	s3Loader, err := pricing.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Key, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 ruleset loader, falling back to local file")
		return fileLoader
	}

	if fileLoader == nil {
		return s3Loader
	}
	return pricing.NewFallbackLoader(s3Loader, fileLoader, logger)
}
