package consumers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/consumers"
	"github.com/Behyna/bank-webhooks/internal/mocks"
	"github.com/Behyna/bank-webhooks/pkg/mq"
	pkgmocks "github.com/Behyna/bank-webhooks/pkg/mocks"
)

func TestNotificationConsumer_Consume(t *testing.T) {
	ctx := context.Background()
	notification := &mocks.NotificationService{}
	broker := &pkgmocks.Consumer{}

	body := []byte(`{"transactionId":"tx-1"}`)
	notification.On("NotifySubscribers", ctx, body).Return(mq.Temporary(assert.AnError))

	var handler mq.Handle
	broker.On("Consume", ctx, 10, "transactions.processed", mock.AnythingOfType("mq.Handle")).
		Run(func(args mock.Arguments) {
			handler = args.Get(3).(mq.Handle)
		}).
		Return(nil)

	c := consumers.NewNotificationConsumer(notification, broker, "transactions.processed", zap.NewNop())
	require.NoError(t, c.Consume(ctx))
	require.NotNil(t, handler)

	err := handler(ctx, body)

	var tempErr mq.TempError
	assert.ErrorAs(t, err, &tempErr)
	notification.AssertExpectations(t)
}
