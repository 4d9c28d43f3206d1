package publishers

import (
	"context"
	"strconv"

	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/Behyna/bank-webhooks/pkg/mq"
	"go.uber.org/zap"
)

type TransactionPublisher interface {
	Publish(ctx context.Context) error
}

type transactionPublisher struct {
	service   service.OutboxService
	publisher mq.Publisher
	queue     string
	batchSize int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewTransactionPublisher(service service.OutboxService, publisher mq.Publisher, queue string, batchSize int,
	metrics *metrics.Metrics, logger *zap.Logger) TransactionPublisher {
	return &transactionPublisher{
		service:   service,
		publisher: publisher,
		queue:     queue,
		batchSize: batchSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// Publish drains one batch of the outbox. Events that fail to publish stay
// unpublished and are retried on the next tick.
func (t *transactionPublisher) Publish(ctx context.Context) error {
	events, err := t.service.FindEventsToPublish(ctx, t.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	t.logger.Info("Publishing transaction events", zap.Int("count", len(events)))

	successCount := 0
	for _, event := range events {
		msg := mq.Message{
			ID:   strconv.FormatInt(event.ID, 10),
			Type: model.OutboxEventTransactionProcessed,
			Body: event.Payload,
		}

		if err := t.publisher.Publish(ctx, "", t.queue, msg); err != nil {
			t.metrics.RecordOutboxPublishError()
			t.logger.Error("Failed to publish transaction event",
				zap.Error(err),
				zap.Int64("outboxId", event.ID),
				zap.String("transactionId", event.TransactionID))

			_ = t.service.MarkEventFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := t.service.MarkEventPublished(ctx, event.ID); err != nil {
			continue
		}

		t.metrics.RecordOutboxPublished()
		successCount++
	}

	if successCount > 0 {
		t.logger.Info("Successfully published transaction events",
			zap.Int("published", successCount),
			zap.Int("total", len(events)))
	}

	return nil
}
