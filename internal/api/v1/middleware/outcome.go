package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/constants"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
	"github.com/Behyna/bank-webhooks/internal/metrics"
)

// WebhookOutcome logs and counts the terminal outcome of every webhook
// request, rejected envelopes and handler panics included.
func WebhookOutcome(route string, m *metrics.Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				webhookID, _ := c.Locals(constants.LocalWebhookID).(string)
				logger.Error("Webhook handler panicked",
					zap.String("webhookId", webhookID),
					zap.String("route", route),
					zap.Any("panic", r),
					zap.Stack("stack"))

				handleError(c, fmt.Errorf("panic: %v", r))
			}

			logOutcome(c, route, time.Since(start), m, logger)
		}()

		if err := c.Next(); err != nil {
			handleError(c, err)
		}

		return nil
	}
}

func handleError(c *fiber.Ctx, err error) {
	if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}

func logOutcome(c *fiber.Ctx, route string, duration time.Duration, m *metrics.Metrics, logger *zap.Logger) {
	webhookID, _ := c.Locals(constants.LocalWebhookID).(string)
	code, _ := c.Locals(constants.LocalErrorCode).(string)

	outcome, _ := c.Locals(constants.LocalOutcome).(string)
	if outcome == "" {
		outcome = apperrors.StatusError
	}

	m.RecordWebhookOutcome(route, outcome, code, duration)

	fields := []zap.Field{
		zap.String("webhookId", webhookID),
		zap.String("route", route),
		zap.String("status", outcome),
		zap.Int("httpStatus", c.Response().StatusCode()),
		zap.String("code", code),
		zap.Duration("duration", duration),
	}

	switch {
	case code == "":
		logger.Info("Webhook handled", fields...)
	case c.Response().StatusCode() >= fiber.StatusInternalServerError:
		logger.Error("Webhook failed", fields...)
	default:
		logger.Warn("Webhook rejected", fields...)
	}
}
