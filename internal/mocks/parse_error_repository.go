package mocks

import (
	"context"
	"time"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/stretchr/testify/mock"
)

type ParseErrorRepository struct {
	mock.Mock
}

func (m *ParseErrorRepository) Create(ctx context.Context, parseError *model.ParseError) error {
	args := m.Called(ctx, parseError)
	return args.Error(0)
}

func (m *ParseErrorRepository) ListUnresolved(ctx context.Context, limit, offset int) ([]model.ParseError, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ParseError), args.Error(1)
}

func (m *ParseErrorRepository) CountUnresolved(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *ParseErrorRepository) MarkResolved(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
