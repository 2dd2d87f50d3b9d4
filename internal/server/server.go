package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/applicationmaker/tenant-service/internal/api/v1"
	"github.com/applicationmaker/tenant-service/internal/config"
	"github.com/applicationmaker/tenant-service/internal/server/middleware"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      Pinger
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds background work
// owned by the middleware stack, such as rate limiter cleanup. Request
// metrics are registered on reg and exposed at /metrics.
func New(ctx context.Context, cfg *config.Config, store Pinger, svc v1.TenantService, reg *prometheus.Registry) *Server {
	router := chi.NewRouter()
	metrics := middleware.NewMetrics(reg)

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.AccessLog)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	router.Use(middleware.RateLimitByIP(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	router.Use(metrics.Middleware)

	s := &Server{
		router: router,
		store:  store,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	router.Route("/api", func(r chi.Router) {
		if cfg.JWT.Secret != "" {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireRoleForWrites(middleware.RoleAdmin))
		} else {
			log.Warn().Msg("TENANT_JWT_SECRET not set, /api is unauthenticated")
		}

		apiConfig := huma.DefaultConfig("Tenant Service API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api"},
		}
		// Bodies carry exactly the tenant fields, no $schema link.
		apiConfig.CreateHooks = nil
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, svc)
	})

	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", metricsHandler(reg))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	log.Info().Str("addr", s.cfg.Server.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
