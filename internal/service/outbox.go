package service

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/repository"
	"go.uber.org/zap"
)

type OutboxService interface {
	FindEventsToPublish(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkEventPublished(ctx context.Context, outboxID int64) error
	MarkEventFailed(ctx context.Context, outboxID int64, reason string) error
}

type outbox struct {
	outboxRepo repository.OutboxRepository
	logger     *zap.Logger
}

func NewOutboxService(outboxRepo repository.OutboxRepository, logger *zap.Logger) OutboxService {
	return &outbox{outboxRepo: outboxRepo, logger: logger}
}

func (o *outbox) FindEventsToPublish(ctx context.Context, limit int) ([]OutboxMessage, error) {
	o.logger.Debug("Finding outbox events to publish", zap.Int("batchSize", limit))

	events, err := o.outboxRepo.FindUnpublished(ctx, limit)
	if err != nil {
		o.logger.Error("Failed to find unpublished outbox events", zap.Error(err))
		return nil, err
	}

	if len(events) == 0 {
		o.logger.Debug("No outbox events found to publish")
		return nil, nil
	}

	messages := make([]OutboxMessage, 0, len(events))
	for _, event := range events {
		messages = append(messages, OutboxMessage{
			ID:            event.ID,
			TransactionID: event.TransactionID,
			Payload:       []byte(event.Payload),
		})
	}

	return messages, nil
}

func (o *outbox) MarkEventPublished(ctx context.Context, outboxID int64) error {
	if err := o.outboxRepo.MarkPublished(ctx, outboxID); err != nil {
		o.logger.Error("Failed to mark outbox event as published",
			zap.Error(err),
			zap.Int64("outboxId", outboxID))
		return err
	}

	o.logger.Debug("Successfully marked outbox event as published", zap.Int64("outboxId", outboxID))

	return nil
}

func (o *outbox) MarkEventFailed(ctx context.Context, outboxID int64, reason string) error {
	if err := o.outboxRepo.MarkFailed(ctx, outboxID, reason); err != nil {
		o.logger.Error("Failed to record outbox publish failure",
			zap.Error(err),
			zap.Int64("outboxId", outboxID))
		return err
	}

	return nil
}
