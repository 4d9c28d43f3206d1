package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/bank-webhooks/internal/constants"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultParseErrorsLimit = 50
	maxParseErrorsLimit     = 200
)

type ParseErrorService interface {
	Record(ctx context.Context, cmd RecordParseErrorCommand) error
	ListUnresolved(ctx context.Context, query ListParseErrorsQuery) (ParseErrorsResponse, error)
	Resolve(ctx context.Context, id int64) error
}

type parseError struct {
	parseErrorRepo repository.ParseErrorRepository
	logger         *zap.Logger
}

func NewParseErrorService(parseErrorRepo repository.ParseErrorRepository, logger *zap.Logger) ParseErrorService {
	return &parseError{parseErrorRepo: parseErrorRepo, logger: logger}
}

func (p *parseError) Record(ctx context.Context, cmd RecordParseErrorCommand) error {
	occurredAt := cmd.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	record := model.ParseError{
		RawMessage:  cmd.RawMessage,
		ErrorReason: cmd.ErrorReason,
		WebhookID:   cmd.WebhookID,
		OccurredAt:  occurredAt.UTC(),
	}

	if err := p.parseErrorRepo.Create(ctx, &record); err != nil {
		p.logger.Error("Failed to record parse error",
			zap.String("webhookId", cmd.WebhookID),
			zap.Error(err))
		return databaseError(err)
	}

	return nil
}

func (p *parseError) ListUnresolved(ctx context.Context, query ListParseErrorsQuery) (ParseErrorsResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultParseErrorsLimit
	}
	if limit > maxParseErrorsLimit {
		limit = maxParseErrorsLimit
	}

	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	records, err := p.parseErrorRepo.ListUnresolved(ctx, limit, offset)
	if err != nil {
		p.logger.Error("Failed to list parse errors", zap.Error(err))
		return ParseErrorsResponse{}, databaseError(err)
	}

	total, err := p.parseErrorRepo.CountUnresolved(ctx)
	if err != nil {
		p.logger.Error("Failed to count parse errors", zap.Error(err))
		return ParseErrorsResponse{}, databaseError(err)
	}

	items := make([]ParseErrorItem, 0, len(records))
	for _, record := range records {
		items = append(items, ParseErrorItem{
			ID:          record.ID,
			RawMessage:  record.RawMessage,
			ErrorReason: record.ErrorReason,
			WebhookID:   record.WebhookID,
			OccurredAt:  record.OccurredAt,
		})
	}

	return ParseErrorsResponse{Items: items, Total: total}, nil
}

func (p *parseError) Resolve(ctx context.Context, id int64) error {
	err := p.parseErrorRepo.MarkResolved(ctx, id, time.Now().UTC())
	if err == nil {
		p.logger.Info("Parse error resolved", zap.Int64("parseErrorId", id))
		return nil
	}

	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(constants.ErrCodeParseErrorNotFound, ErrParseErrorNotFound)
	}

	p.logger.Error("Failed to resolve parse error", zap.Int64("parseErrorId", id), zap.Error(err))
	return databaseError(err)
}
