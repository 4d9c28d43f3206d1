package constants

// Keys for values shared between webhook middleware, handlers and the error
// handler through fiber.Ctx.Locals.
const (
	LocalWebhookID = "webhookId"
	LocalOutcome   = "webhookOutcome"
	LocalErrorCode = "errorCode"
)
