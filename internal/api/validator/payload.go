package validator

import (
	"time"

	"github.com/shopspring/decimal"
)

// StructuredPayload is a bank webhook that already carries typed fields.
type StructuredPayload struct {
	Source     string          `json:"source" validate:"required,max=50,source_slug"`
	Timestamp  string          `json:"timestamp" validate:"required,iso8601"`
	SourceFrom string          `json:"sourceFrom" validate:"required,max=255,source_address"`
	SourceTo   string          `json:"sourceTo" validate:"required,max=255,source_address"`
	Event      string          `json:"event" validate:"required,oneof=deposit withdrawal transfer"`
	Message    string          `json:"message" validate:"required,max=2000"`
	Amount     decimal.Decimal `json:"amount" validate:"amount_positive,amount_scale,amount_max"`
	Currency   string          `json:"currency" validate:"required,currency_code"`
	WebhookID  string          `json:"webhookId" validate:"required,max=255,webhook_id"`
	Metadata   map[string]any  `json:"metadata"`

	OccurredAt time.Time `json:"-"`
}

// FreeTextPayload carries a raw bank notification to be parsed by the grammar.
// One of Phone or Contact identifies the receiving address.
type FreeTextPayload struct {
	Message   string `json:"message" validate:"required,max=2000"`
	Timestamp string `json:"timestamp" validate:"required,iso8601"`
	Phone     string `json:"phone" validate:"required_without=Contact,omitempty,max=255,source_address"`
	Contact   string `json:"contact" validate:"required_without=Phone,omitempty,max=255,source_address"`
	WebhookID string `json:"webhookId" validate:"required,max=255,webhook_id"`

	OccurredAt time.Time `json:"-"`
}

// RoutingAddress is the address the notification was delivered to.
func (p FreeTextPayload) RoutingAddress() string {
	if p.Phone != "" {
		return p.Phone
	}
	return p.Contact
}

type SubscriptionRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
}
