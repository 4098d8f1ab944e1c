// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pinco-dev/pinco/internal/config"
	"github.com/pinco-dev/pinco/internal/health"
	"github.com/pinco-dev/pinco/internal/metrics"
	"github.com/pinco-dev/pinco/internal/middleware"
)

const apiPrefix = "/api"

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Config struct {
	ServerConfig config.ServerConfig
	CORS         config.CORSConfig
	Production   bool
	Logger       *slog.Logger

	Health      *health.Handler
	Metrics     *metrics.Metrics
	MetricsPath string
	RateLimiter *middleware.RateLimiter

	Auth   middleware.AuthConfig
	Routes []RouteRegistrar
}

type Server struct {
	http   *http.Server
	router chi.Router
	health *health.Handler
	logger *slog.Logger
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Auth.Logger == nil {
		cfg.Auth.Logger = cfg.Logger
	}

	router := chi.NewRouter()
	mountRoutes(router, cfg)

	addr := net.JoinHostPort(cfg.ServerConfig.Host, strconv.Itoa(cfg.ServerConfig.Port))

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadTimeout:       cfg.ServerConfig.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.ServerConfig.WriteTimeout,
			IdleTimeout:       cfg.ServerConfig.IdleTimeout,
		},
		router: router,
		health: cfg.Health,
		logger: cfg.Logger,
	}
}

// mountRoutes installs the middleware chain and every route. chi requires
// middleware to be registered before routes, so this runs once in New.
func mountRoutes(router chi.Router, cfg Config) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(cfg.Metrics.Middleware)
	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Handler)
	}
	router.Use(middleware.SecurityHeaders(cfg.Production))
	router.Use(middleware.CORS(cfg.CORS))

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(router)
	}
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		router.Method(http.MethodGet, cfg.MetricsPath, cfg.Metrics.Handler())
	}

	router.Route(apiPrefix, func(r chi.Router) {
		r.Use(middleware.Authenticator(cfg.Auth))
		r.Use(middleware.Authorize(cfg.Auth.Policy))

		for _, reg := range cfg.Routes {
			reg.RegisterRoutes(r)
		}
	})
}

// OpsBypass reports whether r targets a probe or the metrics endpoint, which
// the rate limiter lets through.
func OpsBypass(metricsPath string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		switch r.URL.Path {
		case "/healthz", "/livez", "/readyz":
			return true
		}
		return metricsPath != "" && r.URL.Path == metricsPath
	}
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Addr() string {
	return s.http.Addr
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown fails the health probes, waits drainDelay for load balancers to
// notice, then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.health != nil {
		s.health.SetShutdown(true)
	}

	if drainDelay > 0 {
		s.logger.Info("draining before shutdown", "delay", drainDelay)
		select {
		case <-time.After(drainDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
