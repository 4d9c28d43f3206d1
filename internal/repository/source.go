package repository

import (
	"context"
	"errors"

	"github.com/Behyna/bank-webhooks/internal/model"
	"gorm.io/gorm"
)

type SourceRepository interface {
	Create(ctx context.Context, source *model.Source) error
	GetByTypeAndValue(ctx context.Context, sourceType model.SourceType, value string) (*model.Source, error)
	GetByID(ctx context.Context, id string) (*model.Source, error)
}

type Source struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &Source{db: db}
}

func (s *Source) Create(ctx context.Context, source *model.Source) error {
	err := GetTx(ctx, s.db).Create(source).Error
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return ErrSourceDuplicate
	}

	return err
}

func (s *Source) GetByTypeAndValue(ctx context.Context, sourceType model.SourceType, value string) (*model.Source, error) {
	var source model.Source

	err := GetTx(ctx, s.db).
		Where("source_type = ? AND source_value = ?", sourceType, value).
		First(&source).Error
	if err == nil {
		return &source, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	return nil, err
}

func (s *Source) GetByID(ctx context.Context, id string) (*model.Source, error) {
	var source model.Source

	err := GetTx(ctx, s.db).Where("id = ?", id).First(&source).Error
	if err == nil {
		return &source, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	return nil, err
}
