package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "github.com/Behyna/bank-webhooks/internal/api/v1"
	"github.com/Behyna/bank-webhooks/internal/api/v1/middleware"
	"github.com/Behyna/bank-webhooks/internal/config"
	"github.com/Behyna/bank-webhooks/internal/constants"
	apperrors "github.com/Behyna/bank-webhooks/internal/errors"
	"github.com/Behyna/bank-webhooks/internal/metrics"
)

type RouteDeps struct {
	Config      *config.Config
	Handler     *v1.Handler
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	HealthCheck func() error
	Logger      *zap.Logger
}

func SetupRoutes(app *fiber.App, deps RouteDeps) {
	cfg := deps.Config
	handler := deps.Handler

	app.Use(middleware.HTTPMetricsMiddleware(deps.Metrics, deps.Logger))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.HealthCheckMiddleware(ServiceName, deps.HealthCheck))

	app.Get("/ping", handler.Pong)
	if cfg.Metrics.Enable && deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	group := app.Group("/v1")
	if cfg.RateLimit.Enable {
		group.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.Max,
			Expiration: cfg.RateLimit.Window,
			LimitReached: func(c *fiber.Ctx) error {
				return apperrors.New(constants.ErrCodeRateLimited)
			},
		}))
	}

	webhook := func(route string, h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{
			middleware.WebhookOutcome(route, deps.Metrics, deps.Logger),
			middleware.BodyLimit(cfg.Webhook.MaxBodyBytes),
			middleware.BearerAuth(cfg.Webhook.Secret),
			middleware.RequireJSON(),
			middleware.Freshness(cfg.Webhook, time.Now),
			h,
		}
	}

	group.Post("/webhooks/transactions", webhook("transactions", handler.Transactions)...)
	group.Post("/webhooks/sms", webhook("sms", handler.SMS)...)

	auth := middleware.BearerAuth(cfg.Webhook.Secret)
	group.Get("/sources/:sourceId/users", auth, handler.ListSubscribers)
	group.Post("/sources/:sourceId/users", auth, middleware.RequireJSON(), handler.Subscribe)
	group.Delete("/sources/:sourceId/users/:userId", auth, handler.Unsubscribe)
	group.Get("/parse-errors", auth, handler.ListParseErrors)
	group.Post("/parse-errors/:id/resolve", auth, handler.ResolveParseError)
}
