package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Behyna/bank-webhooks/internal/constants"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type TransactionService interface {
	CreateTransaction(ctx context.Context, sourceID string, cmd CreateTransactionCommand) (CreateTransactionResponse, error)
}

type transaction struct {
	transactionRepo repository.TransactionRepository
	outboxRepo      repository.OutboxRepository
	txManager       repository.TxManager
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewTransactionService(transactionRepo repository.TransactionRepository, outboxRepo repository.OutboxRepository,
	txManager repository.TxManager, metrics *metrics.Metrics, logger *zap.Logger) TransactionService {
	return &transaction{
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// CreateTransaction persists one transaction per webhook ID. A repeated webhook ID
// is reported as Duplicate with the stored row; the unique index is the
// authority, the initial lookup only saves a write.
func (t *transaction) CreateTransaction(ctx context.Context, sourceID string, cmd CreateTransactionCommand) (
	CreateTransactionResponse, error) {

	existing, err := t.transactionRepo.GetByWebhookID(ctx, cmd.WebhookID)
	if err == nil {
		t.metrics.RecordDuplicate("precheck")
		t.logger.Info("Duplicate webhook detected",
			zap.String("webhookId", cmd.WebhookID),
			zap.String("transactionId", existing.ID))
		return CreateTransactionResponse{Transaction: existing, Duplicate: true}, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		t.logger.Error("Failed to check webhook id", zap.String("webhookId", cmd.WebhookID), zap.Error(err))
		return CreateTransactionResponse{}, databaseError(err)
	}

	metadata, err := marshalMetadata(cmd.Metadata)
	if err != nil {
		return CreateTransactionResponse{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	tx := model.Transaction{
		ID:              uuid.NewString(),
		SourceID:        sourceID,
		Provider:        cmd.Provider,
		Amount:          cmd.Amount,
		Currency:        cmd.Currency,
		SenderName:      cmd.SenderName,
		AccountNumber:   cmd.AccountNumber,
		TransactionDate: cmd.TransactionDate,
		TransactionTime: cmd.TransactionTime,
		RawMessage:      cmd.RawMessage,
		WebhookID:       cmd.WebhookID,
		Event:           cmd.Event,
		Status:          model.TransactionStatusProcessed,
		Metadata:        metadata,
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := t.transactionRepo.Create(ctx, &tx); err != nil {
			return err
		}

		payload, err := json.Marshal(newProcessedEvent(&tx))
		if err != nil {
			return err
		}

		event := model.OutboxEvent{
			EventType:     model.OutboxEventTransactionProcessed,
			TransactionID: tx.ID,
			SourceID:      sourceID,
			Payload:       datatypes.JSON(payload),
		}

		return t.outboxRepo.Create(ctx, &event)
	})

	if errors.Is(err, repository.ErrTransactionDuplicate) {
		winner, getErr := t.transactionRepo.GetByWebhookID(ctx, cmd.WebhookID)
		if getErr != nil {
			t.logger.Error("Failed to read transaction after unique conflict",
				zap.String("webhookId", cmd.WebhookID),
				zap.Error(getErr))
			return CreateTransactionResponse{}, databaseError(getErr)
		}

		t.metrics.RecordDuplicate("constraint")
		t.logger.Info("Duplicate webhook detected on insert",
			zap.String("webhookId", cmd.WebhookID),
			zap.String("transactionId", winner.ID))

		return CreateTransactionResponse{Transaction: winner, Duplicate: true}, nil
	}

	if err != nil {
		t.logger.Error("Transaction insert failed",
			zap.String("webhookId", cmd.WebhookID),
			zap.String("sourceId", sourceID),
			zap.Error(err))
		return CreateTransactionResponse{}, databaseError(err)
	}

	t.metrics.RecordTransactionCreated(string(tx.Event))
	t.logger.Info("Transaction created",
		zap.String("transactionId", tx.ID),
		zap.String("webhookId", tx.WebhookID),
		zap.String("sourceId", sourceID))

	return CreateTransactionResponse{Transaction: &tx}, nil
}

func newProcessedEvent(tx *model.Transaction) TransactionProcessedEvent {
	return TransactionProcessedEvent{
		EventID:         uuid.NewString(),
		TransactionID:   tx.ID,
		SourceID:        tx.SourceID,
		WebhookID:       tx.WebhookID,
		Provider:        tx.Provider,
		Event:           string(tx.Event),
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		SenderName:      tx.SenderName,
		AccountNumber:   tx.AccountNumber,
		TransactionDate: tx.TransactionDate.Format("2006-01-02"),
		TransactionTime: tx.TransactionTime,
		CreatedAt:       tx.CreatedAt,
	}
}

func marshalMetadata(metadata map[string]any) (datatypes.JSON, error) {
	if metadata == nil {
		return nil, nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}
