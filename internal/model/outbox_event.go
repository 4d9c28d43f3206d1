package model

import (
	"time"

	"gorm.io/datatypes"
)

const OutboxEventTransactionProcessed = "transaction.processed"

// OutboxEvent is written in the same database transaction as the Transaction it
// announces and is drained by the outbox publisher worker.
type OutboxEvent struct {
	ID            int64          `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	EventType     string         `gorm:"column:event_type;type:varchar(64);not null"`
	TransactionID string         `gorm:"column:transaction_id;type:char(36);not null;uniqueIndex;<-:create"`
	SourceID      string         `gorm:"column:source_id;type:char(36);not null"`
	Payload       datatypes.JSON `gorm:"column:payload;not null"`
	Published     bool           `gorm:"column:published;not null;default:false;index"`
	PublishedAt   *time.Time     `gorm:"column:published_at"`
	Attempts      int            `gorm:"column:attempts;not null;default:0"`
	LastError     *string        `gorm:"column:last_error;type:text"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&Source{},
		&UserSource{},
		&Transaction{},
		&ParseError{},
		&OutboxEvent{},
	}
}
