// Package app assembles the infrastructure shared by every service binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/org-services/internal/api/http"
	"github.com/spec-kit/org-services/internal/api/http/handlers"
	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/observability"
	"github.com/spec-kit/org-services/internal/persistence"
)

const shutdownTimeout = 10 * time.Second

// Options selects the infrastructure a service needs.
type Options struct {
	// MigrationSet names the embedded SQL set applied when migrations are enabled.
	MigrationSet string
	// UseRedis opens a Redis client when REDIS_ENABLED is also set.
	UseRedis bool
}

// Container holds process-wide resources and tears them down in order.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Postgres *persistence.Postgres
	Redis    *persistence.Redis

	otelShutdown observability.ShutdownFunc
}

// NewContainer builds telemetry, logging and storage for one service.
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{Config: cfg}

	traceShutdown, traceErr := observability.SetupTracing(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Version)
	logShutdown, logErr := observability.SetupLogExport(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Version)
	c.otelShutdown = observability.JoinShutdown(traceShutdown, logShutdown)

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name, cfg.Tracing.Enabled() && logErr == nil)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	c.Logger = logger
	if err := errors.Join(traceErr, logErr); err != nil {
		logger.Warn("telemetry export disabled", zap.Error(err))
	}

	c.Metrics = observability.NewMetrics(cfg.App.Name)

	c.Postgres, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Postgres.RunMigrations && opts.MigrationSet != "" {
		if err := persistence.RunMigrations(ctx, c.Postgres.PoolHandle(), opts.MigrationSet, logger); err != nil {
			c.Postgres.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	if opts.UseRedis && cfg.Redis.Enabled {
		c.Redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	}
	return c, nil
}

// Pool returns the Postgres pool, or nil when no DSN is configured.
func (c *Container) Pool() *pgxpool.Pool {
	return c.Postgres.PoolHandle()
}

// NewHTTPApp returns a Fiber app with middleware, health, metrics and the
// given service routes registered.
func (c *Container) NewHTTPApp(routes httptransport.RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               c.Config.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, c.Config.App.Name, c.Logger, c.Metrics, c.Config.App.RequestTimeout())

	routes.Health = handlers.NewHealthHandler(c.Config.App.Name, c.Config.App.Version, c.healthChecks())
	routes.Metrics = c.Metrics.Handler()
	httptransport.RegisterRoutes(app, routes)
	return app
}

func (c *Container) healthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if c.Pool() != nil {
		checks["postgres"] = c.Postgres
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	return checks
}

// Serve listens until SIGINT/SIGTERM or a listener failure, then drains the app.
func (c *Container) Serve(app *fiber.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", zap.String("addr", c.Config.App.Addr()))
		listenErr <- app.Listen(c.Config.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
		c.Logger.Info("shutting down")
	}
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// Shutdown releases storage and flushes telemetry.
func (c *Container) Shutdown(ctx context.Context) {
	c.Redis.Close()
	c.Postgres.Close()
	if err := c.otelShutdown(ctx); err != nil {
		c.Logger.Warn("telemetry shutdown", zap.Error(err))
	}
	_ = c.Logger.Sync()
}
