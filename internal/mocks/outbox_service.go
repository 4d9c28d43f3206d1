package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/stretchr/testify/mock"
)

type OutboxService struct {
	mock.Mock
}

func (m *OutboxService) FindEventsToPublish(ctx context.Context, limit int) ([]service.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.OutboxMessage), args.Error(1)
}

func (m *OutboxService) MarkEventPublished(ctx context.Context, outboxID int64) error {
	args := m.Called(ctx, outboxID)
	return args.Error(0)
}

func (m *OutboxService) MarkEventFailed(ctx context.Context, outboxID int64, reason string) error {
	args := m.Called(ctx, outboxID, reason)
	return args.Error(0)
}
