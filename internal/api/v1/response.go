package v1

import "github.com/Behyna/bank-webhooks/internal/service"

type WebhookResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	WebhookID     string `json:"webhookId"`
	SourceID      string `json:"sourceId,omitempty"`
}

type SubscribersResponse struct {
	SourceID string   `json:"sourceId"`
	UserIDs  []string `json:"userIds"`
}

type SubscriptionResponse struct {
	SourceID string `json:"sourceId"`
	UserID   string `json:"userId"`
}

func newWebhookResponse(result service.WebhookResult) WebhookResponse {
	return WebhookResponse{
		Status:        result.Status,
		TransactionID: result.TransactionID,
		WebhookID:     result.WebhookID,
		SourceID:      result.SourceID,
	}
}
