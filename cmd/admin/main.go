// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command admin is the entry point for the RiddleRush admin server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the key-value storage (memory, Redis or PostgreSQL).
//  4. Build the resource provider (remote backend or local fallback).
//  5. Wire the session registry and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/riddlerush/internal/api"
	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/platform/config"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
	"github.com/taibuivan/riddlerush/internal/platform/middleware"
	"github.com/taibuivan/riddlerush/internal/platform/migration"
	pgstore "github.com/taibuivan/riddlerush/internal/platform/postgres"
	redisstore "github.com/taibuivan/riddlerush/internal/platform/redis"
	"github.com/taibuivan/riddlerush/internal/platform/sec"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/internal/resource/fallback"
	"github.com/taibuivan/riddlerush/internal/resource/remote"
	"github.com/taibuivan/riddlerush/internal/session"
	"github.com/taibuivan/riddlerush/internal/web"
)

const upstreamTimeout = 15 * time.Second

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "riddlerush"))
	slog.SetDefault(log)

	log.Info("[RiddleRush] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "riddlerush"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("provider", cfg.ResourceProvider),
		slog.String("storage", cfg.StorageBackend),
	)

	// Background workers stop with this context.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startupCancel()

	// ── 3. Storage ────────────────────────────────────────────────────────
	storage, checks, closeStorage := openStorage(ctx, startupCtx, cfg, log)
	defer closeStorage()

	// ── 4. Resource Provider ──────────────────────────────────────────────
	upstream := &http.Client{Timeout: upstreamTimeout}

	var (
		provider  resource.Provider
		viewModes web.ViewModes
	)
	switch cfg.ResourceProvider {
	case config.ProviderFallback:
		store, err := fallback.Open(startupCtx, storage, fallback.WithLogger(log))
		must(log, err, "open fallback store")
		provider = fallback.NewProvider(store)
		viewModes = store
	default:
		provider = remote.New(cfg.BackendURL, upstream, session.Token)
	}

	service := resource.NewService(resource.NewCached(provider, storage, cfg.CacheTTL))

	// ── 5. Sessions & Handlers ────────────────────────────────────────────
	registry := session.NewRegistry(session.RegistryConfig{
		Storage:         storage,
		Tokens:          sec.NewBrowserTokens(cfg.SessionSecret, constants.BrowserTokenIssuer, cfg.SessionCookieMaxAge),
		Exchanger:       identity.NewClient(cfg.BackendURL, upstream),
		Logger:          log,
		IdleTTL:         cfg.SessionIdleTTL,
		CookieMaxAge:    cfg.SessionCookieMaxAge,
		SecureCookie:    cfg.IsProduction(),
		ExchangeTimeout: cfg.ExchangeTimeout,
	})
	go registry.Run(ctx)

	pages, err := web.NewHandler(web.Options{
		Service:   service,
		BotName:   cfg.TelegramBotName,
		ViewModes: viewModes,
	})
	must(log, err, "parse page templates")

	loginLimiter := middleware.NewRateLimiter(ctx, constants.LoginRateLimitRPS, constants.LoginRateLimitBurst)
	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(ctx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Registry:  registry,
		Session:   session.NewHandler(loginLimiter.Middleware),
		Resource:  resource.NewHandler(service, session.Notifier),
		Web:       pages,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// openStorage connects the configured key-value backend and returns it with
// its readiness checks and a close function.
func openStorage(ctx, startupCtx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, []api.HealthCheck, func()) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		store, err := redisstore.Open(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")

		return store, []api.HealthCheck{{Name: "redis", Pinger: store}}, func() {
			log.Info("closing redis client")
			if cerr := store.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}

	case config.StoragePostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, migration.Source(cfg.MigrationPath), log), "run migrations")

		store, err := pgstore.Open(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		go purgeExpired(ctx, store, log)

		return store, []api.HealthCheck{{Name: "postgres", Pinger: store}}, func() {
			log.Info("closing postgres pool")
			store.Close()
		}

	default:
		log.Warn("memory_storage_in_use", slog.String("note", "sessions are lost on restart"))
		store := kv.NewMemory()
		return store, []api.HealthCheck{{Name: "memory", Pinger: store}}, func() {}
	}
}

// purgeExpired removes expired PostgreSQL entries until ctx is cancelled.
func purgeExpired(ctx context.Context, store *pgstore.Store, log *slog.Logger) {
	ticker := time.NewTicker(constants.StoragePurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := store.Purge(ctx)
			if err != nil {
				log.Error("storage_purge_failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				log.Debug("storage_purged", slog.Int64("removed", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
