package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/khata/internal/adapter/http/handler"
	"github.com/iho/khata/internal/adapter/http/middleware"
	"github.com/iho/khata/internal/infrastructure/auth"
	"github.com/iho/khata/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	KhataHandler     *handler.KhataHandler
	EntryHandler     *handler.EntryHandler
	AuthHandler      *handler.AuthHandler
	StatementHandler *handler.StatementHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logging := middleware.NewLoggingMiddleware(cfg.Logger)

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logging.Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTManager))

			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}

			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotency.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/khatas", func(r chi.Router) {
				r.Post("/", cfg.KhataHandler.Create)
				r.Get("/", cfg.KhataHandler.List)
				r.Get("/summary", cfg.KhataHandler.Summary)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.KhataHandler.Get)
					r.Put("/", cfg.KhataHandler.Update)
					r.Delete("/", cfg.KhataHandler.Close)
					r.Get("/verify", cfg.KhataHandler.Verify)
					r.Get("/statement", cfg.StatementHandler.Get)

					r.Post("/entries", cfg.EntryHandler.Add)
					r.Get("/entries", cfg.EntryHandler.List)
					r.Delete("/entries/{entryID}", cfg.EntryHandler.Delete)
					r.Put("/entries/{entryID}/restore", cfg.EntryHandler.Restore)
				})
			})
		})
	})

	return r
}
