// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/invoice-backend/internal/admin"
	"github.com/carterperez-dev/templates/invoice-backend/internal/auth"
	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/health"
	"github.com/carterperez-dev/templates/invoice-backend/internal/invoice"
	"github.com/carterperez-dev/templates/invoice-backend/internal/limiter"
	"github.com/carterperez-dev/templates/invoice-backend/internal/metrics"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
	"github.com/carterperez-dev/templates/invoice-backend/internal/migrations"
	"github.com/carterperez-dev/templates/invoice-backend/internal/server"
	"github.com/carterperez-dev/templates/invoice-backend/internal/session"
	"github.com/carterperez-dev/templates/invoice-backend/internal/user"
)

const limiterSweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "path to config file")
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
		if err := migrations.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	switch {
	case errors.Is(err, core.ErrRedisDisabled):
		logger.Info("redis not configured, limiters run in-process")
	case err != nil:
		return err
	default:
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}

	sessions, err := session.FromConfig(cfg.Session, cfg.IsProduction())
	if err != nil {
		return err
	}

	limitCfg := limiter.Config{
		Attempts: cfg.LoginLimit.Attempts,
		Window:   cfg.LoginLimit.Window,
	}
	local := limiter.NewMemory(limitCfg)
	go local.Run(ctx, limiterSweepInterval)

	var attempts limiter.Limiter = local
	if redis.Enabled() {
		attempts = limiter.NewFallback(
			limiter.NewRedis(redis.Client, limitCfg),
			local,
			logger,
		)
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, cfg.Database.QueryTimeout)

	authSvc := auth.NewService(userSvc, attempts, logger)
	authHandler := auth.NewHandler(authSvc, sessions, logger)

	invoiceRepo := invoice.NewRepository(db.DB)
	invoiceSvc := invoice.NewService(invoiceRepo, cfg.Database.QueryTimeout, logger)
	invoiceHandler := invoice.NewHandler(invoiceSvc, logger)

	deps := []health.Dependency{{Name: "database", Checker: db}}
	if redis.Enabled() {
		deps = append(deps, health.Dependency{
			Name:     "redis",
			Checker:  redis,
			Optional: true,
		})
	}
	healthHandler := health.NewHandler(deps...)

	adminCfg := admin.HandlerConfig{
		DBStats:  db.Stats,
		DBPing:   db.Ping,
		Users:    userSvc,
		Invoices: invoiceSvc,
	}
	if redis.Enabled() {
		adminCfg.RedisStats = redis.PoolStats
		adminCfg.RedisPing = redis.Ping
	}
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(metrics.Instrument(cfg.Metrics.Path))
	}
	router.Use(
		middleware.NewRateLimiter(redis.Raw(), middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: middleware.BypassPaths(
				"/healthz",
				"/livez",
				"/readyz",
				cfg.Metrics.Path,
			),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.NewGate(sessions, cfg.Gate, logger).Handler)

	healthHandler.RegisterRoutes(router)
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	registerPages(router, cfg.Gate)

	requireUser := middleware.RequireUser(userSvc)

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		invoiceHandler.RegisterRoutes(r, requireUser)
		adminHandler.RegisterRoutes(r, requireUser, middleware.RequireAdmin)
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

	drainDelay := cfg.Server.DrainDelay
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

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
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
