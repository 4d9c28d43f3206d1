package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Behyna/bank-webhooks/internal/api/validator"
	"github.com/Behyna/bank-webhooks/internal/constants"
	"github.com/Behyna/bank-webhooks/internal/service"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			httpErr    *Error
			serviceErr service.Error
			fiberErr   *fiber.Error
		)

		switch {
		case errors.As(err, &httpErr):
			return respond(c, httpErr.Code, constants.GetErrorMessage(httpErr.Code), httpErr.Fields)

		case errors.As(err, &serviceErr):
			return handleServiceError(c, serviceErr, logger)

		case errors.As(err, &fiberErr):
			code := fiberCode(fiberErr.Code)
			if code == constants.ErrCodeInternalError {
				logger.Error("Unhandled fiber error", zap.Int("status", fiberErr.Code), zap.Error(err))
			}
			return respond(c, code, constants.GetErrorMessage(code), nil)
		}

		logger.Error("Unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))

		return respond(c, constants.ErrCodeInternalError, constants.ErrMsgInternalError, nil)
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error, logger *zap.Logger) error {
	code := err.Code
	message := constants.GetErrorMessage(code)

	var parseErr service.ParseFailedError
	if errors.As(err, &parseErr) && parseErr.Reason != "" {
		message = parseErr.Reason
	}

	if constants.GetHTTPStatus(code) == fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("code", code),
			zap.String("path", c.Path()),
			zap.Error(err))
		if code != constants.ErrCodeDatabase {
			code = constants.ErrCodeInternalError
			message = constants.ErrMsgInternalError
		}
	}

	return respond(c, code, message, nil)
}

func respond(c *fiber.Ctx, code, message string, fields []validator.FieldError) error {
	c.Locals(constants.LocalErrorCode, code)

	webhookID, _ := c.Locals(constants.LocalWebhookID).(string)

	return c.Status(constants.GetHTTPStatus(code)).JSON(Response{
		Status:    StatusError,
		WebhookID: webhookID,
		Error:     message,
		Code:      code,
		Errors:    fields,
	})
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusRequestEntityTooLarge:
		return constants.ErrCodePayloadTooLarge
	case fiber.StatusTooManyRequests:
		return constants.ErrCodeRateLimited
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return constants.ErrCodeNotFound
	case fiber.StatusUnsupportedMediaType:
		return constants.ErrCodeUnsupportedContentType
	case fiber.StatusUnauthorized:
		return constants.ErrCodeUnauthorized
	case fiber.StatusBadRequest:
		return constants.ErrCodeValidationFailed
	default:
		return constants.ErrCodeInternalError
	}
}
