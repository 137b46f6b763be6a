// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
handlers into a runnable [http.Server].

Route Map:

  - /health, /ready: probes, outside any browser session.
  - /auth/...: Telegram login, logout and the session watch socket.
  - /api/v1/...: the admin-only JSON API for campaigns, riddles and leaderboards.
  - everything else: the server-rendered admin pages.

Only this package and cmd/admin touch net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taibuivan/riddlerush/internal/guard"
	"github.com/taibuivan/riddlerush/internal/platform/config"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/middleware"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/internal/session"
	"github.com/taibuivan/riddlerush/internal/web"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups everything the router mounts.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it reports storage health.
	Readiness http.HandlerFunc

	// Registry attaches the browser session to every non-probe request.
	Registry *session.Registry

	// Session serves /auth.
	Session *session.Handler

	// Resource serves the JSON API.
	Resource *resource.Handler

	// Web serves the admin pages.
	Web *web.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. ctx bounds the rate limiter sweepers.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := NewRouter(ctx, cfg, log, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree on its own, for tests.
func NewRouter(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	global := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	r.Use(global.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", constants.HeaderXRequestID},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Browser Surfaces
	r.Group(func(browser chi.Router) {
		browser.Use(h.Registry.Middleware)

		// The watch socket is long-lived and must not hit the request timeout.
		browser.Mount("/auth", h.Session.Routes())

		browser.Group(func(timed chi.Router) {
			timed.Use(chimw.Timeout(constants.GlobalRequestTimeout))

			timed.Route("/api/v1", func(api chi.Router) {
				api.Use(guard.API)
				h.Resource.RegisterRoutes(api)
			})

			h.Web.RegisterRoutes(timed)
		})
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
