// Package cachectrl sets the HTTP caching headers of the meta endpoints.
package cachectrl

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Revalidate marks the response as cacheable only after revalidation against
// lastModified. It reports whether the client copy is still fresh, in which case the
// status is already set to 304 and the handler should not write a body.
func Revalidate(ctx *fiber.Ctx, lastModified time.Time) bool {
	lastModified = lastModified.UTC().Truncate(time.Second)

	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Response().Header.SetLastModified(lastModified)

	since := ctx.Get(fiber.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil || lastModified.After(t) {
		return false
	}

	ctx.Status(fiber.StatusNotModified)
	return true
}

// OptOut forbids any cache from storing the response.
func OptOut(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	ctx.Set(fiber.HeaderPragma, "no-cache")
	ctx.Set(fiber.HeaderExpires, "0")
}
