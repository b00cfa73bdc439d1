package meta

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
)

func RegisterIndex(app *fiber.App) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    bininfo.Name,
			"message": "IFood admin service is up",
		})
	})
}
