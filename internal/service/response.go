package service

import (
	"time"

	"github.com/Behyna/bank-webhooks/internal/model"
)

const (
	WebhookStatusProcessed = "processed"
	WebhookStatusDuplicate = "duplicate"
)

type CreateTransactionResponse struct {
	Transaction *model.Transaction
	Duplicate   bool
}

type WebhookResult struct {
	Status        string
	TransactionID string
	WebhookID     string
	SourceID      string
}

type ParseErrorItem struct {
	ID          int64     `json:"id"`
	RawMessage  string    `json:"rawMessage"`
	ErrorReason string    `json:"errorReason"`
	WebhookID   string    `json:"webhookId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type ParseErrorsResponse struct {
	Items []ParseErrorItem `json:"items"`
	Total int              `json:"total"`
}

type OutboxMessage struct {
	ID            int64
	TransactionID string
	Payload       []byte
}

// ParseFailedError carries the grammar's rejection reason to the HTTP layer.
type ParseFailedError struct {
	Reason string
}

func (e ParseFailedError) Error() string {
	return e.Reason
}

func (e ParseFailedError) Is(target error) bool {
	return target == ErrParseFailed
}
