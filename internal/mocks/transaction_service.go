package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/stretchr/testify/mock"
)

type TransactionService struct {
	mock.Mock
}

func (m *TransactionService) CreateTransaction(ctx context.Context, sourceID string,
	cmd service.CreateTransactionCommand) (service.CreateTransactionResponse, error) {
	args := m.Called(ctx, sourceID, cmd)
	return args.Get(0).(service.CreateTransactionResponse), args.Error(1)
}
