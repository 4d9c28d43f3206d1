package errors

import "github.com/Behyna/bank-webhooks/internal/api/validator"

const StatusError = "error"

type Response struct {
	Status    string                 `json:"status"`
	WebhookID string                 `json:"webhookId,omitempty"`
	Error     string                 `json:"error"`
	Code      string                 `json:"code"`
	Errors    []validator.FieldError `json:"errors,omitempty"`
}
