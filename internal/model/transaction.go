package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionEvent string

const (
	TransactionEventDeposit    TransactionEvent = "deposit"
	TransactionEventWithdrawal TransactionEvent = "withdrawal"
	TransactionEventTransfer   TransactionEvent = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusProcessed TransactionStatus = "processed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusDuplicate TransactionStatus = "duplicate"
	TransactionStatusPending   TransactionStatus = "pending"
)

const DefaultCurrency = "COP"

// AmountScale is the number of fractional digits the amount column keeps.
const AmountScale = 2

// MaxAmount is the largest amount the amount column holds for any accepted
// transaction.
var MaxAmount = decimal.NewFromInt(999_999_999_999)

// Transaction rows are written once per webhook ID and never updated.
type Transaction struct {
	ID              string            `gorm:"column:id;primaryKey;type:char(36);<-:create"`
	SourceID        string            `gorm:"column:source_id;type:char(36);not null;index;<-:create"`
	Provider        string            `gorm:"column:provider;type:varchar(50);not null"`
	Amount          decimal.Decimal   `gorm:"column:amount;type:decimal(15,2);not null"`
	Currency        string            `gorm:"column:currency;type:char(3);not null;default:'COP'"`
	SenderName      *string           `gorm:"column:sender_name;type:varchar(255)"`
	AccountNumber   *string           `gorm:"column:account_number;type:varchar(64)"`
	TransactionDate time.Time         `gorm:"column:transaction_date;type:date;not null"`
	TransactionTime string            `gorm:"column:transaction_time;type:varchar(8);not null"`
	RawMessage      string            `gorm:"column:raw_message;type:text;not null"`
	WebhookID       string            `gorm:"column:webhook_id;type:varchar(255);not null;uniqueIndex:idx_transactions_webhook_id"`
	Event           TransactionEvent  `gorm:"column:event;type:varchar(20);not null"`
	Status          TransactionStatus `gorm:"column:status;type:varchar(20);not null"`
	Metadata        datatypes.JSON    `gorm:"column:metadata"`
	CreatedAt       time.Time         `gorm:"column:created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
