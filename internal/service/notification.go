package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/repository"
	"github.com/Behyna/bank-webhooks/pkg/mq"
	"github.com/Behyna/bank-webhooks/pkg/notifier"
	"go.uber.org/zap"
)

type NotificationService interface {
	NotifySubscribers(ctx context.Context, payload []byte) error
}

type notification struct {
	userSourceRepo repository.UserSourceRepository
	notifier       notifier.Notifier
	config         notifier.Config
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewNotificationService(userSourceRepo repository.UserSourceRepository, notifier notifier.Notifier,
	config *config.Config, metrics *metrics.Metrics, logger *zap.Logger) NotificationService {
	return &notification{
		userSourceRepo: userSourceRepo,
		notifier:       notifier,
		config:         config.Notifier,
		metrics:        metrics,
		logger:         logger,
	}
}

// NotifySubscribers delivers one TransactionProcessedEvent to the active
// subscribers of its source. Errors wrapped with mq.Temporary are requeued by
// the consumer; every other outcome is final.
func (n *notification) NotifySubscribers(ctx context.Context, payload []byte) error {
	var event TransactionProcessedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		n.logger.Warn("Dropping malformed transaction event", zap.Error(err))
		n.metrics.RecordNotification("malformed")
		return nil
	}

	userIDs, err := n.userSourceRepo.ListActiveUserIDs(ctx, event.SourceID)
	if err != nil {
		n.logger.Error("Failed to load subscribers",
			zap.String("transactionId", event.TransactionID),
			zap.String("sourceId", event.SourceID),
			zap.Error(err))
		return mq.Temporary(err)
	}

	if len(userIDs) == 0 {
		n.logger.Info("No active subscribers, skipping notification",
			zap.String("transactionId", event.TransactionID),
			zap.String("sourceId", event.SourceID))
		n.metrics.RecordNotification("skipped")
		return nil
	}

	msg := notifier.Notification{EventID: event.EventID, UserIDs: userIDs, Transaction: payload}

	err = n.sendWithRetry(ctx, msg)
	switch {
	case err == nil:
		n.metrics.RecordNotification("sent")
		n.logger.Info("Subscribers notified",
			zap.String("transactionId", event.TransactionID),
			zap.Int("users", len(userIDs)))
		return nil

	case notifier.IsRetryable(err):
		n.metrics.RecordNotification("retry")
		return mq.Temporary(err)

	default:
		n.metrics.RecordNotification("rejected")
		n.logger.Warn("Notification rejected, dropping",
			zap.String("transactionId", event.TransactionID),
			zap.Error(err))
		return nil
	}
}

func (n *notification) sendWithRetry(ctx context.Context, msg notifier.Notification) error {
	maxRetry := n.config.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		attemptCtx := ctx
		cancel := func() {}
		if n.config.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, n.config.Timeout)
		}

		err := n.notifier.Notify(attemptCtx, msg)
		cancel()

		if err == nil {
			return nil
		}

		lastErr = err
		n.logger.Warn("Notification attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("eventId", msg.EventID))

		if !notifier.IsRetryable(err) {
			return err
		}

		if attempt < maxRetry {
			delay := time.Duration(attempt) * 100 * time.Millisecond
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return notifier.ErrTimeout
			}
		}
	}

	n.logger.Error("All notification attempts exhausted",
		zap.Error(lastErr),
		zap.Int("maxRetries", maxRetry),
		zap.String("eventId", msg.EventID))

	return lastErr
}
