package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/stretchr/testify/mock"
)

type WebhookService struct {
	mock.Mock
}

func (m *WebhookService) ProcessStructured(ctx context.Context, cmd service.StructuredWebhookCommand) (service.WebhookResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.WebhookResult), args.Error(1)
}

func (m *WebhookService) ProcessFreeText(ctx context.Context, cmd service.FreeTextWebhookCommand) (service.WebhookResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.WebhookResult), args.Error(1)
}
