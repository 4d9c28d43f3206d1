package repository

import (
	"context"
	"time"

	"github.com/Behyna/bank-webhooks/internal/model"
	"gorm.io/gorm"
)

type ParseErrorRepository interface {
	Create(ctx context.Context, parseError *model.ParseError) error
	ListUnresolved(ctx context.Context, limit, offset int) ([]model.ParseError, error)
	CountUnresolved(ctx context.Context) (int, error)
	MarkResolved(ctx context.Context, id int64, at time.Time) error
}

type ParseError struct {
	db *gorm.DB
}

func NewParseErrorRepository(db *gorm.DB) ParseErrorRepository {
	return &ParseError{db: db}
}

func (p *ParseError) Create(ctx context.Context, parseError *model.ParseError) error {
	return GetTx(ctx, p.db).Create(parseError).Error
}

func (p *ParseError) ListUnresolved(ctx context.Context, limit, offset int) ([]model.ParseError, error) {
	var parseErrors []model.ParseError

	err := GetTx(ctx, p.db).
		Where("resolved = ?", false).
		Order("occurred_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&parseErrors).Error
	if err != nil {
		return nil, err
	}

	return parseErrors, nil
}

func (p *ParseError) CountUnresolved(ctx context.Context) (int, error) {
	var count int64

	err := GetTx(ctx, p.db).Model(&model.ParseError{}).
		Where("resolved = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// MarkResolved returns ErrNotFound when id does not name an unresolved row.
func (p *ParseError) MarkResolved(ctx context.Context, id int64, at time.Time) error {
	result := GetTx(ctx, p.db).Model(&model.ParseError{}).
		Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]any{
			"resolved":    true,
			"resolved_at": at,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
