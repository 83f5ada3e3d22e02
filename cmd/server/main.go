package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/database"
	"github.com/stemsi/contact-backend/internal/events"
	"github.com/stemsi/contact-backend/internal/handler"
	"github.com/stemsi/contact-backend/internal/logger"
	"github.com/stemsi/contact-backend/internal/middleware"
	"github.com/stemsi/contact-backend/internal/observability"
	"github.com/stemsi/contact-backend/internal/router"
	"github.com/stemsi/contact-backend/internal/service"
	"github.com/stemsi/contact-backend/internal/store"
	"github.com/stemsi/contact-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("env", cfg.AppEnv).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Contact Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Shutdown complete")
}

// run wires every dependency and serves until SIGINT or SIGTERM. Stores and
// Redis are closed before it returns.
func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Tracing ───────────────────────────────────────────────────────
	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	// ─── Connect to Store ──────────────────────────────────────────────
	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer stores.Close()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}
	broker, apiLimiter, contactLimiter := buildSharedState(cfg, rdb, log)

	// ─── Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(stores.Admins, authService, log)
	messageService := service.NewMessageService(stores.Messages, broker, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	dev := cfg.IsDevelopment()
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(adminService, dev),
		Message: handler.NewMessageHandler(messageService, dev),
		Feed:    handler.NewFeedHandler(broker, prom.FeedSubscribers, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, router.Deps{
		AuthService:    authService,
		AdminService:   adminService,
		APILimiter:     apiLimiter,
		ContactLimiter: contactLimiter,
		Prom:           prom,
		Gatherer:       reg,
		Log:            log,
	}, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Tracer shutdown error")
	}
	return nil
}

// buildSharedState picks Redis-backed or in-process implementations for the
// state shared between requests.
func buildSharedState(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) (events.Broker, middleware.Limiter, middleware.Limiter) {
	if rdb == nil {
		return events.NewMemoryBroker(),
			middleware.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
			middleware.NewMemoryLimiter(cfg.ContactRateLimitMax, cfg.RateLimitWindow)
	}
	return events.NewRedisBroker(rdb, log),
		middleware.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow),
		middleware.NewRedisLimiter(rdb, cfg.ContactRateLimitMax, cfg.RateLimitWindow)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
