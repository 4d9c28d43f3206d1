package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/service"
	"github.com/stretchr/testify/mock"
)

type ParseErrorService struct {
	mock.Mock
}

func (m *ParseErrorService) Record(ctx context.Context, cmd service.RecordParseErrorCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *ParseErrorService) ListUnresolved(ctx context.Context, query service.ListParseErrorsQuery) (service.ParseErrorsResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(service.ParseErrorsResponse), args.Error(1)
}

func (m *ParseErrorService) Resolve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
