package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/Behyna/bank-webhooks/internal/testutil"
)

func newTransaction(sourceID, webhookID string) *model.Transaction {
	return &model.Transaction{
		SourceID:        sourceID,
		Provider:        "bancolombia",
		Amount:          decimal.RequireFromString("75000.50"),
		Currency:        model.DefaultCurrency,
		TransactionDate: time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC),
		TransactionTime: "08:06:00",
		RawMessage:      "Recibiste una transferencia",
		WebhookID:       webhookID,
		Event:           model.TransactionEventDeposit,
		Status:          model.TransactionStatusProcessed,
		Metadata:        datatypes.JSON(`{"channel":"sms"}`),
	}
}

func TestSourceRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSourceRepository(testutil.NewDB(t))

	source := &model.Source{SourceType: model.SourceTypePhone, SourceValue: "+573001234567"}
	require.NoError(t, repo.Create(ctx, source))
	assert.Len(t, source.ID, 36)

	found, err := repo.GetByTypeAndValue(ctx, model.SourceTypePhone, "+573001234567")
	require.NoError(t, err)
	assert.Equal(t, source.ID, found.ID)

	byID, err := repo.GetByID(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SourceTypePhone, byID.SourceType)

	err = repo.Create(ctx, &model.Source{SourceType: model.SourceTypePhone, SourceValue: "+573001234567"})
	assert.ErrorIs(t, err, repository.ErrSourceDuplicate)

	// Same value under another type is a different source.
	require.NoError(t, repo.Create(ctx, &model.Source{SourceType: model.SourceTypeWebhook, SourceValue: "+573001234567"}))

	_, err = repo.GetByTypeAndValue(ctx, model.SourceTypeEmail, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserSourceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sources := repository.NewSourceRepository(db)
	repo := repository.NewUserSourceRepository(db)

	source := &model.Source{SourceType: model.SourceTypeEmail, SourceValue: "alerts@bank.co"}
	require.NoError(t, sources.Create(ctx, source))

	ids, err := repo.ListActiveUserIDs(ctx, source.ID)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	first := &model.UserSource{UserID: "user-b", SourceID: source.ID, IsActive: true}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, &model.UserSource{UserID: "user-a", SourceID: source.ID, IsActive: true}))

	err = repo.Create(ctx, &model.UserSource{UserID: "user-a", SourceID: source.ID, IsActive: true})
	assert.ErrorIs(t, err, repository.ErrUserSourceDuplicate)

	ids, err = repo.ListActiveUserIDs(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, ids)

	require.NoError(t, repo.SetActive(ctx, first.ID, false))

	got, err := repo.Get(ctx, "user-b", source.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	ids, err = repo.ListActiveUserIDs(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a"}, ids)

	assert.ErrorIs(t, repo.SetActive(ctx, 9999, true), repository.ErrNoRowsAffected)

	_, err = repo.Get(ctx, "user-z", source.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTransactionRepository(testutil.NewDB(t))

	tx := newTransaction("source-1", "dup-1")
	require.NoError(t, repo.Create(ctx, tx))
	require.NotEmpty(t, tx.ID)

	found, err := repo.GetByWebhookID(ctx, "dup-1")
	require.NoError(t, err)
	assert.Equal(t, tx.ID, found.ID)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("75000.50")))
	assert.Equal(t, "08:06:00", found.TransactionTime)
	assert.JSONEq(t, `{"channel":"sms"}`, string(found.Metadata))

	byID, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "dup-1", byID.WebhookID)

	err = repo.Create(ctx, newTransaction("source-1", "dup-1"))
	assert.ErrorIs(t, err, repository.ErrTransactionDuplicate)

	_, err = repo.GetByWebhookID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	txManager := repository.NewTransactionManager(db)
	transactions := repository.NewTransactionRepository(db)
	outbox := repository.NewOutboxRepository(db)

	boom := errors.New("boom")
	err := txManager.WithTx(ctx, func(ctx context.Context) error {
		tx := newTransaction("source-1", "rolled-back")
		if err := transactions.Create(ctx, tx); err != nil {
			return err
		}
		if err := outbox.Create(ctx, &model.OutboxEvent{
			EventType:     model.OutboxEventTransactionProcessed,
			TransactionID: tx.ID,
			SourceID:      tx.SourceID,
			Payload:       datatypes.JSON(`{}`),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = transactions.GetByWebhookID(ctx, "rolled-back")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	events, err := outbox.FindUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOutboxRepository(testutil.NewDB(t))

	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		require.NoError(t, repo.Create(ctx, &model.OutboxEvent{
			EventType:     model.OutboxEventTransactionProcessed,
			TransactionID: id,
			SourceID:      "source-1",
			Payload:       datatypes.JSON(`{"id":"` + id + `"}`),
		}))
	}

	events, err := repo.FindUnpublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "tx-1", events[0].TransactionID)

	require.NoError(t, repo.MarkFailed(ctx, events[0].ID, "broker down"))
	require.NoError(t, repo.MarkFailed(ctx, events[0].ID, "broker down again"))
	require.NoError(t, repo.MarkPublished(ctx, events[1].ID))
	assert.ErrorIs(t, repo.MarkPublished(ctx, events[1].ID), repository.ErrNoRowsAffected)

	events, err = repo.FindUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "tx-1", events[0].TransactionID)
	assert.Equal(t, 2, events[0].Attempts)
	require.NotNil(t, events[0].LastError)
	assert.Equal(t, "broker down again", *events[0].LastError)
	assert.Equal(t, "tx-3", events[1].TransactionID)
}

func TestParseErrorRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewParseErrorRepository(testutil.NewDB(t))

	base := time.Date(2025, 9, 4, 8, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &model.ParseError{
			RawMessage:  msg,
			ErrorReason: "message does not match the bank notification format",
			WebhookID:   msg,
			OccurredAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := repo.ListUnresolved(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].RawMessage)

	require.NoError(t, repo.MarkResolved(ctx, list[0].ID, base.Add(time.Hour)))
	assert.ErrorIs(t, repo.MarkResolved(ctx, list[0].ID, base), repository.ErrNotFound)
	assert.ErrorIs(t, repo.MarkResolved(ctx, 4242, base), repository.ErrNotFound)

	count, err := repo.CountUnresolved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err = repo.ListUnresolved(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].RawMessage)
}
