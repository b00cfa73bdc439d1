package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xbg/ifood-admin/internal/pkg/flog"
)

const LocalsKeyRequestID = "requestId"

// RequestID copies the request id generated by the logger chain into ctx.Locals,
// where handlers and the error handler can pick it up without touching the logger.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(LocalsKeyRequestID, id.String())
		}
		return c.Next()
	}
}
