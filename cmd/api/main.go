// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pinco-dev/pinco/internal/auth"
	"github.com/pinco-dev/pinco/internal/bookmark"
	"github.com/pinco-dev/pinco/internal/config"
	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/health"
	"github.com/pinco-dev/pinco/internal/like"
	"github.com/pinco-dev/pinco/internal/metrics"
	"github.com/pinco-dev/pinco/internal/middleware"
	"github.com/pinco-dev/pinco/internal/pin"
	"github.com/pinco-dev/pinco/internal/server"
	"github.com/pinco-dev/pinco/internal/tag"
	"github.com/pinco-dev/pinco/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrated")
	}

	var redisClient *redis.Client
	redisCheck := health.Check{Name: "redis", Optional: true}
	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting in process", "error", err)
	} else {
		redisClient = rdb.Client
		redisCheck.Checker = rdb
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	}

	var m *metrics.Metrics
	metricsPath := ""
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		metricsPath = cfg.Metrics.Path
		if err := m.RegisterDB(db.DB.DB, "postgres"); err != nil {
			logger.Warn("database metrics not registered", "error", err)
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"access_token_ttl", jwtManager.AccessTokenTTL(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, db.DB)

	authSvc := auth.NewService(userRepo, jwtManager)

	pinSvc := pin.NewService(pin.NewRepository(db.DB), userRepo, pin.Limits{
		DefaultRadius: cfg.Pin.DefaultRadius,
		MaxRadius:     cfg.Pin.MaxRadius,
		MaxContentLen: cfg.Pin.MaxContentLen,
	})
	likeSvc := like.NewService(like.NewRepository(db.DB), db.DB, userRepo)
	bookmarkSvc := bookmark.NewService(bookmark.NewRepository(db.DB), pinSvc)
	tagSvc := tag.NewService(tag.NewRepository(db.DB), db.DB, pinSvc)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db},
		redisCheck,
	)

	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Limit: middleware.Per(
			cfg.RateLimit.Window,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
		),
		FailOpen:   true,
		BypassFunc: server.OpsBypass(metricsPath),
	})

	srv := server.New(server.Config{
		ServerConfig: cfg.Server,
		CORS:         cfg.CORS,
		Production:   cfg.App.Environment == "production",
		Logger:       logger,
		Health:       healthHandler,
		Metrics:      m,
		MetricsPath:  metricsPath,
		RateLimiter:  limiter,
		Auth: middleware.AuthConfig{
			Resolver: auth.NewResolver(userRepo, jwtManager, logger),
			Policy:   middleware.DefaultPolicy(),
			Metrics:  m,
			Logger:   logger,
		},
		Routes: []server.RouteRegistrar{
			auth.NewHandler(authSvc),
			user.NewHandler(userSvc),
			pin.NewHandler(pinSvc),
			like.NewHandler(likeSvc),
			bookmark.NewHandler(bookmarkSvc),
			tag.NewHandler(tagSvc),
		},
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
