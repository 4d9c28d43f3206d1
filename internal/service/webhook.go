package service

import (
	"context"
	"time"

	"github.com/Behyna/bank-webhooks/internal/address"
	"github.com/Behyna/bank-webhooks/internal/constants"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/textparser"
	"go.uber.org/zap"
)

type WebhookService interface {
	ProcessStructured(ctx context.Context, cmd StructuredWebhookCommand) (WebhookResult, error)
	ProcessFreeText(ctx context.Context, cmd FreeTextWebhookCommand) (WebhookResult, error)
}

type webhook struct {
	source      SourceService
	transaction TransactionService
	parseError  ParseErrorService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewWebhookService(source SourceService, transaction TransactionService, parseError ParseErrorService,
	metrics *metrics.Metrics, logger *zap.Logger) WebhookService {
	return &webhook{source: source, transaction: transaction, parseError: parseError, metrics: metrics, logger: logger}
}

// ProcessStructured routes a validated payload to its source and stores it.
// Date and time are taken from the payload timestamp converted to UTC.
func (w *webhook) ProcessStructured(ctx context.Context, cmd StructuredWebhookCommand) (WebhookResult, error) {
	src, err := w.resolveSource(ctx, cmd.SourceTo, cmd.WebhookID)
	if err != nil {
		return WebhookResult{}, err
	}

	occurredAt := cmd.OccurredAt.UTC()
	createCmd := CreateTransactionCommand{
		Provider:        cmd.Source,
		Amount:          cmd.Amount,
		Currency:        cmd.Currency,
		TransactionDate: time.Date(occurredAt.Year(), occurredAt.Month(), occurredAt.Day(), 0, 0, 0, 0, time.UTC),
		TransactionTime: occurredAt.Format(time.TimeOnly),
		RawMessage:      cmd.Message,
		WebhookID:       cmd.WebhookID,
		Event:           cmd.Event,
		Metadata:        cmd.Metadata,
	}

	return w.persist(ctx, src.ID, createCmd)
}

// ProcessFreeText parses a bank notification and stores the extracted
// transaction. Messages that do not match the grammar are recorded for review
// and reported as PARSE_FAILED.
func (w *webhook) ProcessFreeText(ctx context.Context, cmd FreeTextWebhookCommand) (WebhookResult, error) {
	parsed := textparser.Parse(cmd.Message)
	if !parsed.Success {
		w.metrics.RecordParseFailure()
		w.logger.Info("Free-text message did not match the bank grammar",
			zap.String("webhookId", cmd.WebhookID),
			zap.String("reason", parsed.ErrorReason))

		recordCmd := RecordParseErrorCommand{
			RawMessage:  cmd.Message,
			ErrorReason: parsed.ErrorReason,
			WebhookID:   cmd.WebhookID,
			OccurredAt:  cmd.OccurredAt,
		}
		if err := w.parseError.Record(ctx, recordCmd); err != nil {
			w.logger.Warn("Parse error could not be recorded",
				zap.String("webhookId", cmd.WebhookID),
				zap.Error(err))
		}

		return WebhookResult{}, NewServiceError(constants.ErrCodeParseFailed, ParseFailedError{Reason: parsed.ErrorReason})
	}

	src, err := w.resolveSource(ctx, cmd.RoutingAddress, cmd.WebhookID)
	if err != nil {
		return WebhookResult{}, err
	}

	sender := parsed.SenderName
	account := parsed.Account
	createCmd := CreateTransactionCommand{
		Provider:        textparser.Bank,
		Amount:          parsed.Amount,
		Currency:        model.DefaultCurrency,
		SenderName:      &sender,
		AccountNumber:   &account,
		TransactionDate: parsed.Date,
		TransactionTime: parsed.Time + ":00",
		RawMessage:      cmd.Message,
		WebhookID:       cmd.WebhookID,
		Event:           model.TransactionEventDeposit,
	}

	return w.persist(ctx, src.ID, createCmd)
}

func (w *webhook) resolveSource(ctx context.Context, routingAddress, webhookID string) (*model.Source, error) {
	sourceType, value := address.Resolve(routingAddress)

	src, err := w.source.FindOrCreateSource(ctx, sourceType, value)
	if err != nil {
		return nil, err
	}

	userIDs, err := w.source.GetUsersForSource(ctx, src.ID)
	if err != nil {
		return nil, err
	}

	if len(userIDs) == 0 {
		w.logger.Warn("No users configured for source",
			zap.String("webhookId", webhookID),
			zap.String("sourceId", src.ID),
			zap.String("sourceType", string(sourceType)))
		return nil, NewServiceError(constants.ErrCodeNoUsersConfigured, ErrNoUsersConfigured)
	}

	w.logger.Debug("Source resolved",
		zap.String("webhookId", webhookID),
		zap.String("sourceId", src.ID),
		zap.Int("subscribers", len(userIDs)))

	return src, nil
}

func (w *webhook) persist(ctx context.Context, sourceID string, cmd CreateTransactionCommand) (WebhookResult, error) {
	resp, err := w.transaction.CreateTransaction(ctx, sourceID, cmd)
	if err != nil {
		return WebhookResult{}, err
	}

	status := WebhookStatusProcessed
	if resp.Duplicate {
		status = WebhookStatusDuplicate
	}

	return WebhookResult{
		Status:        status,
		TransactionID: resp.Transaction.ID,
		WebhookID:     cmd.WebhookID,
		SourceID:      resp.Transaction.SourceID,
	}, nil
}
