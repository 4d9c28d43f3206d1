package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/config"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
)

const (
	ServiceName = "bank-webhooks"

	// appBodyLimit is the hard transport ceiling. The per-route webhook limit
	// is enforced by middleware so that it is reported through the error handler.
	appBodyLimit = 4 * 1024 * 1024
)

// NewApp builds the fiber application with the JSON error envelope installed.
func NewApp(cfg *config.Config, logger *zap.Logger) *fiber.App {
	bodyLimit := appBodyLimit
	if cfg.Webhook.MaxBodyBytes > bodyLimit {
		bodyLimit = cfg.Webhook.MaxBodyBytes
	}

	return fiber.New(fiber.Config{
		AppName:               ServiceName,
		BodyLimit:             bodyLimit,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          apperrors.ErrorHandler(logger),
	})
}
