package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	v1 "github.com/Behyna/bank-webhooks/internal/api/v1"
	"github.com/Behyna/bank-webhooks/internal/api/v1/middleware"
	"github.com/Behyna/bank-webhooks/internal/api/validator"
	"github.com/Behyna/bank-webhooks/internal/constants"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/mocks"
)

func transactionBody(webhookID string) string {
	return `{
		"source": "bancolombia",
		"timestamp": "2025-09-04T13:06:00Z",
		"sourceFrom": "+573000000000",
		"sourceTo": "+573001234567",
		"event": "transfer",
		"message": "Transferencia",
		"amount": 1500,
		"webhookId": "` + webhookID + `"
	}`
}

func newOutcomeApp(webhook *mocks.WebhookService) (*fiber.App, *metrics.Metrics, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	handler := v1.NewHandler(logger, validator.NewXValidator(validator.NewValidate(), m), webhook,
		&mocks.SourceService{}, &mocks.ParseErrorService{})

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(logger)})
	app.Post("/v1/webhooks/transactions", middleware.WebhookOutcome("transactions", m, logger), handler.Transactions)

	return app, m, logs
}

func TestWebhookOutcome_HandlerPanic(t *testing.T) {
	webhook := &mocks.WebhookService{}
	app, m, logs := newOutcomeApp(webhook)

	webhook.On("ProcessStructured", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") })

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/transactions", strings.NewReader(transactionBody("panic-1")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body apperrors.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, constants.ErrCodeInternalError, body.Code)
	assert.Equal(t, "panic-1", body.WebhookID)

	panicked := logs.FilterMessage("Webhook handler panicked").All()
	require.Len(t, panicked, 1)
	assert.Equal(t, "panic-1", panicked[0].ContextMap()["webhookId"])

	failed := logs.FilterMessage("Webhook failed").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "panic-1", fields["webhookId"])
	assert.Equal(t, constants.ErrCodeInternalError, fields["code"])
	assert.EqualValues(t, http.StatusInternalServerError, fields["httpStatus"])

	assert.Equal(t, 1.0, promtestutil.ToFloat64(
		m.WebhookOutcomes.WithLabelValues("transactions", apperrors.StatusError, constants.ErrCodeInternalError)))
}

func TestWebhookOutcome_ValidationKeepsWebhookID(t *testing.T) {
	webhook := &mocks.WebhookService{}
	app, _, logs := newOutcomeApp(webhook)

	body := strings.Replace(transactionBody("wh-invalid"), `"amount": 1500`, `"amount": 0.001`, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/transactions", strings.NewReader(body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var decoded apperrors.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, constants.ErrCodeValidationFailed, decoded.Code)
	assert.Equal(t, "wh-invalid", decoded.WebhookID)

	rejected := logs.FilterMessage("Webhook rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "wh-invalid", rejected[0].ContextMap()["webhookId"])
	webhook.AssertNotCalled(t, "ProcessStructured", mock.Anything, mock.Anything)
}
