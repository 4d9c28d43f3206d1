package consumers

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/Behyna/bank-webhooks/pkg/mq"
	"go.uber.org/zap"
)

type NotificationConsumer interface {
	Consume(ctx context.Context) error
}

type notificationConsumer struct {
	service  service.NotificationService
	consumer mq.Consumer
	queue    string
	logger   *zap.Logger
}

func NewNotificationConsumer(service service.NotificationService, consumer mq.Consumer, queue string,
	logger *zap.Logger) NotificationConsumer {
	return &notificationConsumer{
		service:  service,
		consumer: consumer,
		queue:    queue,
		logger:   logger,
	}
}

func (n *notificationConsumer) Consume(ctx context.Context) error {
	return n.consumer.Consume(ctx, 10, n.queue, n.handleMessage)
}

func (n *notificationConsumer) handleMessage(ctx context.Context, body []byte) error {
	n.logger.Debug("received transaction event", zap.Int("bytes", len(body)))

	return n.service.NotifySubscribers(ctx, body)
}
