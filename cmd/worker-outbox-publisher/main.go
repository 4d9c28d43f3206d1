package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/database"
	"github.com/Behyna/bank-webhooks/internal/logger"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/publishers"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/Behyna/bank-webhooks/pkg/mq"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			logger.New,
			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,
			NewMetrics,

			repository.NewOutboxRepository,
			service.NewOutboxService,

			NewTransactionPublisher,
		),
		fx.Invoke(runOutboxPublisher),
	).Run()
}

func runOutboxPublisher(cfg *config.Config, publisher publishers.TransactionPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{cfg.Outbox.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				ticker := time.NewTicker(cfg.Outbox.Interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish outbox events", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("outbox publisher started", zap.Duration("interval", cfg.Outbox.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping outbox publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	mqCfg := cfg.RabbitMQ
	mqCfg.ConnectionName += "/worker-outbox-publisher"
	return mq.NewConnection(mqCfg, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewTransactionPublisher(cfg *config.Config, outbox service.OutboxService, publisher mq.Publisher,
	m *metrics.Metrics, logger *zap.Logger) publishers.TransactionPublisher {
	return publishers.NewTransactionPublisher(outbox, publisher, cfg.Outbox.Queue, cfg.Outbox.BatchSize, m, logger)
}
