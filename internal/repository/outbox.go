package repository

import (
	"context"
	"time"

	"github.com/Behyna/bank-webhooks/internal/model"
	"gorm.io/gorm"
)

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	FindUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

type Outbox struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &Outbox{db: db}
}

func (o *Outbox) Create(ctx context.Context, event *model.OutboxEvent) error {
	return GetTx(ctx, o.db).Create(event).Error
}

func (o *Outbox) FindUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent

	err := GetTx(ctx, o.db).
		Where("published = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (o *Outbox) MarkPublished(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	result := GetTx(ctx, o.db).Model(&model.OutboxEvent{}).
		Where("id = ? AND published = ?", id, false).
		Updates(map[string]any{
			"published":    true,
			"published_at": now,
			"last_error":   nil,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id int64, reason string) error {
	result := GetTx(ctx, o.db).Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
