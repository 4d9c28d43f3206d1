package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockTxKey struct{}

type TxManager struct {
	mock.Mock
}

// WithTx records the call and, unless an error is configured, runs fn with a
// derived context the way the real manager does.
func (t *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := t.Called(ctx, fn)

	if args.Error(0) != nil {
		return args.Error(0)
	}

	txCtx := context.WithValue(ctx, mockTxKey{}, "mock_tx")
	return fn(txCtx)
}
