package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/constants"
	"github.com/Behyna/bank-webhooks/internal/mocks"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/Behyna/bank-webhooks/internal/testutil"
)

func newCreateCommand(webhookID string) service.CreateTransactionCommand {
	return service.CreateTransactionCommand{
		Provider:        "bancolombia",
		Amount:          decimal.NewFromInt(75000),
		Currency:        "COP",
		TransactionDate: time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC),
		TransactionTime: "08:06:00",
		RawMessage:      "deposit received",
		WebhookID:       webhookID,
		Event:           model.TransactionEventDeposit,
		Metadata:        map[string]any{"channel": "api"},
	}
}

func TestTransaction_CreateTransaction(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("creates transaction and outbox event", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		outboxRepo := &mocks.OutboxRepository{}
		txManager := &mocks.TxManager{}

		svc := service.NewTransactionService(txRepo, outboxRepo, txManager, newMetrics(), logger)

		txRepo.On("GetByWebhookID", ctx, "wh-1").Return(nil, repository.ErrNotFound)
		txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)

		txRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.WebhookID == "wh-1" &&
				tx.SourceID == "source-1" &&
				tx.Status == model.TransactionStatusProcessed &&
				tx.Amount.Equal(decimal.NewFromInt(75000)) &&
				string(tx.Metadata) == `{"channel":"api"}` &&
				len(tx.ID) == 36
		})).Return(nil)

		outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *model.OutboxEvent) bool {
			var payload service.TransactionProcessedEvent
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				return false
			}
			return event.EventType == model.OutboxEventTransactionProcessed &&
				event.SourceID == "source-1" &&
				payload.TransactionID == event.TransactionID &&
				payload.WebhookID == "wh-1" &&
				payload.TransactionDate == "2025-09-04" &&
				payload.EventID != ""
		})).Return(nil)

		resp, err := svc.CreateTransaction(ctx, "source-1", newCreateCommand("wh-1"))

		require.NoError(t, err)
		assert.False(t, resp.Duplicate)
		assert.Equal(t, "wh-1", resp.Transaction.WebhookID)
		txRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("returns existing row when precheck hits", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		outboxRepo := &mocks.OutboxRepository{}
		txManager := &mocks.TxManager{}

		svc := service.NewTransactionService(txRepo, outboxRepo, txManager, newMetrics(), logger)

		existing := &model.Transaction{ID: "tx-existing", WebhookID: "wh-1", SourceID: "source-1"}
		txRepo.On("GetByWebhookID", ctx, "wh-1").Return(existing, nil)

		resp, err := svc.CreateTransaction(ctx, "source-1", newCreateCommand("wh-1"))

		require.NoError(t, err)
		assert.True(t, resp.Duplicate)
		assert.Equal(t, "tx-existing", resp.Transaction.ID)
		txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("unique conflict on insert is a duplicate", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		outboxRepo := &mocks.OutboxRepository{}
		txManager := &mocks.TxManager{}

		svc := service.NewTransactionService(txRepo, outboxRepo, txManager, newMetrics(), logger)

		winner := &model.Transaction{ID: "tx-winner", WebhookID: "wh-1", SourceID: "source-1"}
		txRepo.On("GetByWebhookID", ctx, "wh-1").Return(nil, repository.ErrNotFound).Once()
		txRepo.On("GetByWebhookID", ctx, "wh-1").Return(winner, nil).Once()
		txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		txRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrTransactionDuplicate)

		resp, err := svc.CreateTransaction(ctx, "source-1", newCreateCommand("wh-1"))

		require.NoError(t, err)
		assert.True(t, resp.Duplicate)
		assert.Equal(t, "tx-winner", resp.Transaction.ID)
		outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert failure is a database error", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		outboxRepo := &mocks.OutboxRepository{}
		txManager := &mocks.TxManager{}

		svc := service.NewTransactionService(txRepo, outboxRepo, txManager, newMetrics(), logger)

		txRepo.On("GetByWebhookID", ctx, "wh-1").Return(nil, repository.ErrNotFound)
		txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		txRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.CreateTransaction(ctx, "source-1", newCreateCommand("wh-1"))

		var serviceErr service.Error
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeDatabase, serviceErr.Code)
		assert.ErrorIs(t, err, service.ErrDatabase)
	})

	t.Run("precheck failure is a database error", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		svc := service.NewTransactionService(txRepo, &mocks.OutboxRepository{}, &mocks.TxManager{}, newMetrics(), logger)

		txRepo.On("GetByWebhookID", ctx, "wh-1").Return(nil, errors.New("connection reset"))

		_, err := svc.CreateTransaction(ctx, "source-1", newCreateCommand("wh-1"))
		assert.ErrorIs(t, err, service.ErrDatabase)
	})
}

func TestTransaction_CreateTransactionConcurrently(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	svc := service.NewTransactionService(
		repository.NewTransactionRepository(db),
		repository.NewOutboxRepository(db),
		repository.NewTransactionManager(db),
		newMetrics(),
		zap.NewNop(),
	)

	const workers = 8
	results := make([]service.CreateTransactionResponse, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CreateTransaction(ctx, "source-1", newCreateCommand("dup-1"))
		}(i)
	}
	wg.Wait()

	created := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Transaction.ID, results[i].Transaction.ID)
		if !results[i].Duplicate {
			created++
		}
	}
	assert.Equal(t, 1, created)

	var rows int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("webhook_id = ?", "dup-1").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	require.NoError(t, db.Model(&model.OutboxEvent{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
