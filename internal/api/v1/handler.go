package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/api/validator"
	"github.com/Behyna/bank-webhooks/internal/constants"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/internal/service"
)

type Handler struct {
	logger     *zap.Logger
	validator  validator.IXValidator
	webhook    service.WebhookService
	source     service.SourceService
	parseError service.ParseErrorService
}

func NewHandler(logger *zap.Logger, validator validator.IXValidator, webhook service.WebhookService,
	source service.SourceService, parseError service.ParseErrorService) *Handler {
	return &Handler{logger: logger, validator: validator, webhook: webhook, source: source, parseError: parseError}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Transactions ingests a structured bank webhook.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	payload, fieldErrs := h.validator.ValidateStructured(c.Body())
	if len(fieldErrs) > 0 {
		c.Locals(constants.LocalWebhookID, validator.RawWebhookID(c.Body()))
		return apperrors.Validation(fieldErrs)
	}

	c.Locals(constants.LocalWebhookID, payload.WebhookID)

	cmd := service.StructuredWebhookCommand{
		Source:     payload.Source,
		SourceFrom: payload.SourceFrom,
		SourceTo:   payload.SourceTo,
		Event:      model.TransactionEvent(payload.Event),
		Message:    payload.Message,
		Amount:     payload.Amount,
		Currency:   payload.Currency,
		WebhookID:  payload.WebhookID,
		Metadata:   payload.Metadata,
		OccurredAt: payload.OccurredAt,
	}

	result, err := h.webhook.ProcessStructured(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	c.Locals(constants.LocalOutcome, result.Status)

	return c.Status(fiber.StatusOK).JSON(newWebhookResponse(result))
}

// SMS ingests a free-text bank notification forwarded from a phone.
func (h *Handler) SMS(c *fiber.Ctx) error {
	payload, fieldErrs := h.validator.ValidateFreeText(c.Body())
	if len(fieldErrs) > 0 {
		c.Locals(constants.LocalWebhookID, validator.RawWebhookID(c.Body()))
		return apperrors.Validation(fieldErrs)
	}

	c.Locals(constants.LocalWebhookID, payload.WebhookID)

	cmd := service.FreeTextWebhookCommand{
		Message:        payload.Message,
		RoutingAddress: payload.RoutingAddress(),
		WebhookID:      payload.WebhookID,
		OccurredAt:     payload.OccurredAt,
	}

	result, err := h.webhook.ProcessFreeText(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	c.Locals(constants.LocalOutcome, result.Status)

	return c.Status(fiber.StatusOK).JSON(newWebhookResponse(result))
}

func (h *Handler) ListSubscribers(c *fiber.Ctx) error {
	sourceID := c.Params("sourceId")

	userIDs, err := h.source.ListSubscribers(c.UserContext(), sourceID)
	if err != nil {
		return err
	}

	return c.JSON(SubscribersResponse{SourceID: sourceID, UserIDs: userIDs})
}

func (h *Handler) Subscribe(c *fiber.Ctx) error {
	sourceID := c.Params("sourceId")

	req, fieldErrs := h.validator.ValidateSubscription(c.Body())
	if len(fieldErrs) > 0 {
		return apperrors.Validation(fieldErrs)
	}

	if err := h.source.AddUserSource(c.UserContext(), req.UserID, sourceID); err != nil {
		return err
	}

	h.logger.Info("Subscription added", zap.String("sourceId", sourceID), zap.String("userId", req.UserID))

	return c.Status(fiber.StatusCreated).JSON(SubscriptionResponse{SourceID: sourceID, UserID: req.UserID})
}

func (h *Handler) Unsubscribe(c *fiber.Ctx) error {
	sourceID := c.Params("sourceId")
	userID := c.Params("userId")

	if err := h.source.RemoveUserSource(c.UserContext(), userID, sourceID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListParseErrors(c *fiber.Ctx) error {
	var req ListParseErrorsRequest
	if err := c.QueryParser(&req); err != nil {
		return apperrors.Validation([]validator.FieldError{{
			Field:   "limit",
			Message: "limit and offset must be integers",
			Code:    validator.CodeInvalidType,
		}})
	}

	resp, err := h.parseError.ListUnresolved(c.UserContext(), service.ListParseErrorsQuery{
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) ResolveParseError(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperrors.New(constants.ErrCodeParseErrorNotFound)
	}

	if err := h.parseError.Resolve(c.UserContext(), int64(id)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
