package mocks

import (
	"context"

	"github.com/Behyna/bank-webhooks/pkg/notifier"
	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (_m *Notifier) Notify(ctx context.Context, notification notifier.Notification) error {
	ret := _m.Called(ctx, notification)
	return ret.Error(0)
}
