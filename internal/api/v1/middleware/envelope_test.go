package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/api/v1/middleware"
	"github.com/Behyna/bank-webhooks/internal/config"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
)

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(zap.NewNop())})
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/", handlers...)
	return app
}

func TestFreshness(t *testing.T) {
	now := time.Date(2025, 9, 4, 12, 0, 0, 0, time.UTC)
	cfg := config.Webhook{MaxAge: 5 * time.Minute, MaxClockSkew: time.Minute}

	tests := []struct {
		name     string
		header   string
		require  bool
		expected int
	}{
		{name: "absent and optional", header: "", expected: http.StatusOK},
		{name: "absent and required", header: "", require: true, expected: http.StatusBadRequest},
		{name: "unix seconds within window", header: "1756987080", expected: http.StatusOK},
		{name: "rfc3339 within window", header: "2025-09-04T11:58:00Z", expected: http.StatusOK},
		{name: "rfc3339 with offset", header: "2025-09-04T06:59:30-05:00", expected: http.StatusOK},
		{name: "too old", header: "2025-09-04T11:50:00Z", expected: http.StatusUnauthorized},
		{name: "small future skew", header: "2025-09-04T12:00:30Z", expected: http.StatusOK},
		{name: "too far in the future", header: "2025-09-04T12:05:00Z", expected: http.StatusUnauthorized},
		{name: "garbage", header: "not-a-time", expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			webhookCfg := cfg
			webhookCfg.RequireTimestamp = tt.require
			app := newApp(middleware.Freshness(webhookCfg, func() time.Time { return now }))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set(middleware.TimestampHeader, tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	app := newApp(middleware.BearerAuth("s3cret"))

	tests := map[string]int{
		"Bearer s3cret":  http.StatusOK,
		"Bearer s3cret ": http.StatusOK,
		"Bearer wrong":   http.StatusUnauthorized,
		"Basic s3cret":   http.StatusUnauthorized,
		"":               http.StatusUnauthorized,
	}

	for header, expected := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if header != "" {
			req.Header.Set(fiber.HeaderAuthorization, header)
		}

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, expected, resp.StatusCode, header)
	}
}

func TestBearerAuth_EmptySecretRejectsAll(t *testing.T) {
	app := newApp(middleware.BearerAuth(""))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer ")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
