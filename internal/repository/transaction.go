package repository

import (
	"context"
	"errors"

	"github.com/Behyna/bank-webhooks/internal/model"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	GetByWebhookID(ctx context.Context, webhookID string) (*model.Transaction, error)
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
}

type Transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &Transaction{db: db}
}

func (t *Transaction) Create(ctx context.Context, transaction *model.Transaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(transaction).Error
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return ErrTransactionDuplicate
	}

	return err
}

func (t *Transaction) GetByWebhookID(ctx context.Context, webhookID string) (*model.Transaction, error) {
	var transaction model.Transaction

	err := GetTx(ctx, t.db).Where("webhook_id = ?", webhookID).First(&transaction).Error
	if err == nil {
		return &transaction, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	return nil, err
}

func (t *Transaction) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var transaction model.Transaction

	err := GetTx(ctx, t.db).Where("id = ?", id).First(&transaction).Error
	if err == nil {
		return &transaction, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	return nil, err
}
