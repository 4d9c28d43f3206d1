package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Behyna/bank-webhooks/internal/api"
	v1 "github.com/Behyna/bank-webhooks/internal/api/v1"
	"github.com/Behyna/bank-webhooks/internal/api/validator"
	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/database"
	"github.com/Behyna/bank-webhooks/internal/logger"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/Behyna/bank-webhooks/internal/service"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			logger.New,
			database.NewConnection,
			NewRegistry,
			metrics.NewMetrics,
			metrics.NewSystemCollector,
			metrics.NewDatabaseMetricsCollector,

			repository.NewTransactionManager,
			repository.NewSourceRepository,
			repository.NewUserSourceRepository,
			repository.NewTransactionRepository,
			repository.NewParseErrorRepository,
			repository.NewOutboxRepository,

			service.NewSourceService,
			service.NewTransactionService,
			service.NewParseErrorService,
			service.NewWebhookService,

			validator.NewValidate,
			validator.NewXValidator,
			v1.NewHandler,
			api.NewApp,
		),
		fx.Invoke(startCollectors, startServer),
	).Run()
}

// NewRegistry exposes the default prometheus registry so Go runtime and
// process collectors are scraped alongside the service metrics.
func NewRegistry() (prometheus.Registerer, prometheus.Gatherer) {
	return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
}

func startCollectors(cfg *config.Config, system *metrics.SystemCollector, db *metrics.DatabaseMetricsCollector,
	lc fx.Lifecycle) {
	if !cfg.Metrics.Enable {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			system.Start(cfg.Metrics.Interval)
			db.Start(cfg.Metrics.Interval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			system.Stop()
			db.Stop()
			return nil
		},
	})
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	gatherer prometheus.Gatherer, dbCollector *metrics.DatabaseMetricsCollector, db *gorm.DB,
	logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, api.RouteDeps{
		Config:      cfg,
		Handler:     handler,
		Metrics:     m,
		Gatherer:    gatherer,
		HealthCheck: dbCollector.HealthCheck,
		Logger:      logger,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			logger.Info("HTTP server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
