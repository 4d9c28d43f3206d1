package middleware

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/constants"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
)

const TimestampHeader = "X-Webhook-Timestamp"

// BodyLimit rejects bodies larger than maxBytes. Non-positive maxBytes disables the check.
func BodyLimit(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if maxBytes > 0 && (len(c.Body()) > maxBytes || c.Request().Header.ContentLength() > maxBytes) {
			return apperrors.New(constants.ErrCodePayloadTooLarge)
		}
		return c.Next()
	}
}

// BearerAuth requires "Authorization: Bearer <secret>".
func BearerAuth(secret string) fiber.Handler {
	expected := []byte(secret)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || len(expected) == 0 || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), expected) != 1 {
			return apperrors.New(constants.ErrCodeUnauthorized)
		}
		return c.Next()
	}
}

func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		mediaType, _, _ := strings.Cut(c.Get(fiber.HeaderContentType), ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), fiber.MIMEApplicationJSON) {
			return apperrors.New(constants.ErrCodeUnsupportedContentType)
		}
		return c.Next()
	}
}

// Freshness checks the X-Webhook-Timestamp header against the configured
// window. The header holds unix seconds or an RFC 3339 timestamp.
func Freshness(cfg config.Webhook, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}

	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(TimestampHeader))
		if raw == "" {
			if cfg.RequireTimestamp {
				return apperrors.New(constants.ErrCodeMissingTimestamp)
			}
			return c.Next()
		}

		sent, ok := parseHeaderTimestamp(raw)
		if !ok {
			return apperrors.New(constants.ErrCodeInvalidTimestamp)
		}

		current := now()
		if cfg.MaxAge > 0 && current.Sub(sent) > cfg.MaxAge {
			return apperrors.New(constants.ErrCodeRequestExpired)
		}
		if sent.Sub(current) > cfg.MaxClockSkew {
			return apperrors.New(constants.ErrCodeRequestExpired)
		}

		return c.Next()
	}
}

func parseHeaderTimestamp(raw string) (time.Time, bool) {
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(seconds, 0), true
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
