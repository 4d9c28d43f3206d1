package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Behyna/bank-webhooks/internal/mocks"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/service"
)

func TestOutbox_FindEventsToPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("maps events to messages", func(t *testing.T) {
		repo := &mocks.OutboxRepository{}
		svc := service.NewOutboxService(repo, zap.NewNop())

		repo.On("FindUnpublished", ctx, 10).Return([]model.OutboxEvent{
			{ID: 1, TransactionID: "tx-1", Payload: datatypes.JSON(`{"transactionId":"tx-1"}`)},
			{ID: 2, TransactionID: "tx-2", Payload: datatypes.JSON(`{"transactionId":"tx-2"}`)},
		}, nil)

		messages, err := svc.FindEventsToPublish(ctx, 10)

		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, int64(1), messages[0].ID)
		assert.Equal(t, "tx-2", messages[1].TransactionID)
		assert.JSONEq(t, `{"transactionId":"tx-1"}`, string(messages[0].Payload))
	})

	t.Run("no events", func(t *testing.T) {
		repo := &mocks.OutboxRepository{}
		svc := service.NewOutboxService(repo, zap.NewNop())

		repo.On("FindUnpublished", ctx, 10).Return([]model.OutboxEvent{}, nil)

		messages, err := svc.FindEventsToPublish(ctx, 10)

		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &mocks.OutboxRepository{}
		svc := service.NewOutboxService(repo, zap.NewNop())

		repo.On("FindUnpublished", ctx, 10).Return(nil, errors.New("db down"))

		_, err := svc.FindEventsToPublish(ctx, 10)
		assert.EqualError(t, err, "db down")
	})
}

func TestOutbox_MarkEvent(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.OutboxRepository{}
	svc := service.NewOutboxService(repo, zap.NewNop())

	repo.On("MarkPublished", ctx, int64(1)).Return(nil)
	repo.On("MarkPublished", ctx, int64(2)).Return(errors.New("gone"))
	repo.On("MarkFailed", ctx, int64(3), "broker down").Return(nil)

	assert.NoError(t, svc.MarkEventPublished(ctx, 1))
	assert.Error(t, svc.MarkEventPublished(ctx, 2))
	assert.NoError(t, svc.MarkEventFailed(ctx, 3, "broker down"))
	repo.AssertExpectations(t)
}
