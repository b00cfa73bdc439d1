package svr

import (
	"github.com/gofiber/fiber/v2"
)

// Meta groups the operational endpoints of the service.
type Meta struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App) *Meta {
	meta := app.Group("/api/_")

	return &Meta{Router: meta}
}
