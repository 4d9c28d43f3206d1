package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/stretchr/testify/mock"
)

type SourceRepository struct {
	mock.Mock
}

func (m *SourceRepository) Create(ctx context.Context, source *model.Source) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *SourceRepository) GetByTypeAndValue(ctx context.Context, sourceType model.SourceType, value string) (*model.Source, error) {
	args := m.Called(ctx, sourceType, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

func (m *SourceRepository) GetByID(ctx context.Context, id string) (*model.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}
