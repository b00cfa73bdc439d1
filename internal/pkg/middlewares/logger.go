package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xbg/ifood-admin/internal/pkg/flog"
)

const RequestIDHeader = "X-IFood-Request-ID"

func Logger(app *fiber.App) {
	Chained(
		app,
		flog.NewHandlerMiddleware(log.With().Str("component", "httpreq").Logger()),
		flog.RequestIDHandler("request_id", RequestIDHeader),
		flog.FieldHandler("ip", (*fiber.Ctx).IP),
		flog.FieldHandler("method", func(ctx *fiber.Ctx) string { return ctx.Method() }),
		flog.FieldHandler("url", func(ctx *fiber.Ctx) string { return ctx.Path() }),
		flog.FieldHandler("user_agent", func(ctx *fiber.Ctx) string { return ctx.Get(fiber.HeaderUserAgent) }),
		requestLogger(),
	)
}

func requestLogger() fiber.Handler {
	return flog.AccessHandler(func(ctx *fiber.Ctx, duration time.Duration, err error) {
		var evt *zerolog.Event
		if err != nil {
			evt = flog.FromFiberCtx(ctx).Warn().Err(err)
		} else {
			evt = flog.FromFiberCtx(ctx).Info()
		}
		evt.
			Int("status", ctx.Response().StatusCode()).
			Int("size", len(ctx.Response().Body())).
			Dur("duration", duration).
			Msg("received request")
	})
}
