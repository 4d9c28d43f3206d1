package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/consumers"
	"github.com/Behyna/bank-webhooks/internal/database"
	"github.com/Behyna/bank-webhooks/internal/logger"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/Behyna/bank-webhooks/pkg/httpclient"
	"github.com/Behyna/bank-webhooks/pkg/mq"
	"github.com/Behyna/bank-webhooks/pkg/notifier"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			logger.New,
			database.NewConnection,
			NewMQConnection,
			NewMQConsumer,
			NewMetrics,

			repository.NewUserSourceRepository,
			NewNotifier,
			service.NewNotificationService,

			NewNotificationConsumer,
		),
		fx.Invoke(runNotificationConsumer),
	).Run()
}

func runNotificationConsumer(cfg *config.Config, consumer consumers.NotificationConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{cfg.Outbox.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				if err := consumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("notification consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping notification consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewNotifier(cfg *config.Config) notifier.Notifier {
	client := httpclient.NewHTTPClient(cfg.Notifier.Timeout)
	return notifier.NewHTTPNotifier(cfg.Notifier, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	mqCfg := cfg.RabbitMQ
	mqCfg.ConnectionName += "/worker-notify"
	return mq.NewConnection(mqCfg, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewNotificationConsumer(cfg *config.Config, notification service.NotificationService, consumer mq.Consumer,
	logger *zap.Logger) consumers.NotificationConsumer {
	return consumers.NewNotificationConsumer(notification, consumer, cfg.Outbox.Queue, logger)
}
