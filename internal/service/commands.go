package service

import (
	"time"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/shopspring/decimal"
)

type StructuredWebhookCommand struct {
	Source     string
	SourceFrom string
	SourceTo   string
	Event      model.TransactionEvent
	Message    string
	Amount     decimal.Decimal
	Currency   string
	WebhookID  string
	Metadata   map[string]any
	OccurredAt time.Time
}

type FreeTextWebhookCommand struct {
	Message        string
	RoutingAddress string
	WebhookID      string
	OccurredAt     time.Time
}

type CreateTransactionCommand struct {
	Provider        string
	Amount          decimal.Decimal
	Currency        string
	SenderName      *string
	AccountNumber   *string
	TransactionDate time.Time
	TransactionTime string
	RawMessage      string
	WebhookID       string
	Event           model.TransactionEvent
	Metadata        map[string]any
}

type RecordParseErrorCommand struct {
	RawMessage  string
	ErrorReason string
	WebhookID   string
	OccurredAt  time.Time
}

type ListParseErrorsQuery struct {
	Limit  int
	Offset int
}

// TransactionProcessedEvent is the outbox payload published for every newly
// persisted transaction.
type TransactionProcessedEvent struct {
	EventID         string          `json:"eventId"`
	TransactionID   string          `json:"transactionId"`
	SourceID        string          `json:"sourceId"`
	WebhookID       string          `json:"webhookId"`
	Provider        string          `json:"provider"`
	Event           string          `json:"event"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	SenderName      *string         `json:"senderName,omitempty"`
	AccountNumber   *string         `json:"accountNumber,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	TransactionTime string          `json:"transactionTime"`
	CreatedAt       time.Time       `json:"createdAt"`
}
