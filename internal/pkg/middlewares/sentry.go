package middlewares

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// EnrichSentry tags the request scoped sentry hub with the request id and opens a
// transaction continued from any incoming sentry-trace header.
func EnrichSentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hub := fibersentry.GetHubFromContext(c)
		if hub == nil {
			return c.Next()
		}
		if id, ok := c.Locals(LocalsKeyRequestID).(string); ok {
			hub.Scope().SetTag("request_id", id)
		}

		var r http.Request
		if err := fasthttpadaptor.ConvertRequest(c.Context(), &r, true); err != nil {
			return err
		}
		span := sentry.StartTransaction(
			sentry.SetHubOnContext(c.UserContext(), hub),
			c.Method()+" "+c.Route().Path,
			sentry.ContinueFromRequest(&r),
		)
		defer span.Finish()

		c.SetUserContext(span.Context())
		err := c.Next()
		span.Status = sentry.HTTPtoSpanStatus(c.Response().StatusCode())
		return err
	}
}
