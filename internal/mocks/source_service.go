package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/stretchr/testify/mock"
)

type SourceService struct {
	mock.Mock
}

func (m *SourceService) FindOrCreateSource(ctx context.Context, sourceType model.SourceType, value string) (*model.Source, error) {
	args := m.Called(ctx, sourceType, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

func (m *SourceService) GetUsersForSource(ctx context.Context, sourceID string) ([]string, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *SourceService) ListSubscribers(ctx context.Context, sourceID string) ([]string, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *SourceService) AddUserSource(ctx context.Context, userID, sourceID string) error {
	args := m.Called(ctx, userID, sourceID)
	return args.Error(0)
}

func (m *SourceService) RemoveUserSource(ctx context.Context, userID, sourceID string) error {
	args := m.Called(ctx, userID, sourceID)
	return args.Error(0)
}
