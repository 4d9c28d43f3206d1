package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/stretchr/testify/mock"
)

type UserSourceRepository struct {
	mock.Mock
}

func (m *UserSourceRepository) Create(ctx context.Context, userSource *model.UserSource) error {
	args := m.Called(ctx, userSource)
	return args.Error(0)
}

func (m *UserSourceRepository) Get(ctx context.Context, userID, sourceID string) (*model.UserSource, error) {
	args := m.Called(ctx, userID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSource), args.Error(1)
}

func (m *UserSourceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *UserSourceRepository) ListActiveUserIDs(ctx context.Context, sourceID string) ([]string, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
