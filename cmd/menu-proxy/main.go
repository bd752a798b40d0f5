package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/square-menu/internal/api"
	"github.com/Sternrassler/square-menu/internal/config"
	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/catalog"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/square"
	"github.com/Sternrassler/square-menu/pkg/webhook"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})
	logger := logging.NewLogger("main")

	server, redisClient, err := newServer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("redis_url", cfg.RedisURL).Msg("Redis unreachable, serving without cache")
	} else {
		logger.Info().Msg("Connected to Redis")
	}
	cancel()

	if cfg.SquareAccessToken == "" {
		logger.Warn().Msg("SQUARE_ACCESS_TOKEN is not set, catalog requests will fail")
	}
	if cfg.WebhookSignatureKey == "" {
		logger.Warn().Msg("SQUARE_WEBHOOK_SIGNATURE_KEY is not set, webhook signatures are not verified")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("square_environment", cfg.SquareEnvironment).
		Str("notification_url", cfg.NotificationURL()).
		Bool("api_key_required", cfg.APIKey != "").
		Msg("Menu proxy started")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}

// newServer wires configuration into the API server.
func newServer(cfg *config.Config) (*api.Server, *redis.Client, error) {
	redisClient, err := cache.Connect(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	store := cache.NewManager(redisClient)

	squareClient, err := square.New(cfg.Square())
	if err != nil {
		redisClient.Close()
		return nil, nil, err
	}

	catalogCfg := catalog.DefaultConfig()
	catalogCfg.TTL = cfg.CacheTTL

	server := api.New(cfg, api.Deps{
		Catalog: catalog.New(squareClient, store, catalogCfg),
		Webhook: webhook.NewHandler(webhook.NewVerifier(cfg.WebhookSignatureKey, cfg.NotificationURL()), store),
		Cache:   store,
	})
	return server, redisClient, nil
}
