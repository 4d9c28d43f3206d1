package v1_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	v1 "github.com/Behyna/bank-webhooks/internal/api/v1"
	"github.com/Behyna/bank-webhooks/internal/api/validator"
	"github.com/Behyna/bank-webhooks/internal/constants"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/mocks"
	"github.com/Behyna/bank-webhooks/internal/service"
)

const structuredBody = `{
	"source": "bancolombia",
	"timestamp": "2025-09-04T13:06:00Z",
	"sourceFrom": "+573000000000",
	"sourceTo": "+573001234567",
	"event": "transfer",
	"message": "Transferencia",
	"amount": 1500.50,
	"currency": "USD",
	"webhookId": "wh-1"
}`

func newHandlerApp(webhook service.WebhookService) *fiber.App {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	handler := v1.NewHandler(zap.NewNop(), validator.NewXValidator(validator.NewValidate(), m), webhook,
		&mocks.SourceService{}, &mocks.ParseErrorService{})

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(zap.NewNop())})
	app.Post("/transactions", handler.Transactions)
	return app
}

func decode(t *testing.T, resp *http.Response) apperrors.Response {
	t.Helper()

	var body apperrors.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandler_Transactions(t *testing.T) {
	t.Run("maps the payload to a command", func(t *testing.T) {
		webhook := &mocks.WebhookService{}
		app := newHandlerApp(webhook)

		webhook.On("ProcessStructured", mock.Anything, mock.MatchedBy(func(cmd service.StructuredWebhookCommand) bool {
			return cmd.SourceTo == "+573001234567" &&
				cmd.Currency == "USD" &&
				cmd.Amount.String() == "1500.5" &&
				string(cmd.Event) == "transfer" &&
				cmd.OccurredAt.Hour() == 13
		})).Return(service.WebhookResult{
			Status:        service.WebhookStatusProcessed,
			TransactionID: "tx-1",
			WebhookID:     "wh-1",
			SourceID:      "source-1",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(structuredBody))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body v1.WebhookResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, v1.WebhookResponse{
			Status:        "processed",
			TransactionID: "tx-1",
			WebhookID:     "wh-1",
			SourceID:      "source-1",
		}, body)
	})

	t.Run("database failure is a 500 carrying the webhook id", func(t *testing.T) {
		webhook := &mocks.WebhookService{}
		app := newHandlerApp(webhook)

		webhook.On("ProcessStructured", mock.Anything, mock.Anything).Return(service.WebhookResult{},
			service.NewServiceError(constants.ErrCodeDatabase, errors.Join(service.ErrDatabase, errors.New("conn refused"))))

		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(structuredBody))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, constants.ErrCodeDatabase, body.Code)
		assert.Equal(t, "wh-1", body.WebhookID)
		assert.NotContains(t, body.Error, "conn refused")
	})

	t.Run("unknown service failure is an internal error", func(t *testing.T) {
		webhook := &mocks.WebhookService{}
		app := newHandlerApp(webhook)

		webhook.On("ProcessStructured", mock.Anything, mock.Anything).Return(service.WebhookResult{}, errors.New("boom"))

		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(structuredBody))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, constants.ErrCodeInternalError, decode(t, resp).Code)
	})

	t.Run("invalid payload never reaches the service", func(t *testing.T) {
		webhook := &mocks.WebhookService{}
		app := newHandlerApp(webhook)

		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"amount": 10}`))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, constants.ErrCodeValidationFailed, body.Code)
		assert.NotEmpty(t, body.Errors)
		webhook.AssertNotCalled(t, "ProcessStructured", mock.Anything, mock.Anything)
	})

	t.Run("validation failure echoes a well formed webhook id", func(t *testing.T) {
		webhook := &mocks.WebhookService{}
		app := newHandlerApp(webhook)

		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"amount": 10, "webhookId": "wh-9"}`))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "wh-9", decode(t, resp).WebhookID)
	})

	t.Run("validation failure drops a malformed webhook id", func(t *testing.T) {
		webhook := &mocks.WebhookService{}
		app := newHandlerApp(webhook)

		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"amount": 10, "webhookId": "wh 9!"}`))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, decode(t, resp).WebhookID)
	})
}
