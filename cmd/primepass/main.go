package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"primepass/internal/app"
	"primepass/internal/config"
	"primepass/internal/credentials"
	"primepass/internal/handlers"
	"primepass/internal/middleware"
	"primepass/internal/observability"
	rediscfg "primepass/internal/platform/redis"
)

func main() {
	cfg, err := config.LoadService("PRIMEPASS_")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := observability.NewLogger(cfg.ServiceName, cfg.Environment, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Environment).
		Bool("redis", cfg.Redis.Enabled).
		Int("bcrypt_default_cost", cfg.Credentials.DefaultCost).
		Msg("config loaded")

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	svc, err := credentials.NewService(cfg.Credentials, metrics, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("credentials service setup failed")
	}

	ctx := context.Background()
	var readyDeps []handlers.Pinger
	var limiter func(chi.Router)
	if cfg.Redis.Enabled {
		rdb, err := rediscfg.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		readyDeps = append(readyDeps, handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
		limiter = func(r chi.Router) {
			r.Use(middleware.RateLimiter(rdb, cfg.RateLimit.RequestsPerMinute, logger))
		}
	} else {
		logger.Warn().Msg("redis disabled, requests are not rate limited")
	}

	server := app.NewHTTPServer(cfg.ServiceName, cfg, logger, readyDeps...)
	server.Router.Route("/v1", func(r chi.Router) {
		if limiter != nil {
			limiter(r)
		}
		credentials.RegisterHandlers(r, svc, logger)
	})

	if err := server.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("primepass terminated")
	}
}
