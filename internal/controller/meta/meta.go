package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/pkg/apierr"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/pkg/cachectrl"
	"github.com/xbg/ifood-admin/internal/repo"
	"github.com/xbg/ifood-admin/internal/server/svr"
	"github.com/xbg/ifood-admin/internal/service"
)

type Meta struct {
	fx.In

	HealthService *service.Health
	Registry      *repo.Registry
}

func RegisterMeta(meta *svr.Meta, c Meta) {
	meta.Get("/bininfo", c.BinInfo)
	meta.Get("/mappers", c.Mappers)

	meta.Get("/health", cache.New(cache.Config{
		// cache it for a second to mitigate potential DDoS
		Expiration: time.Second,
	}), c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"name":    bininfo.Name,
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
	})
}

func (c *Meta) Mappers(ctx *fiber.Ctx) error {
	cachectrl.OptOut(ctx)
	return ctx.JSON(fiber.Map{
		"mappers": c.Registry.Names(),
	})
}

func (c *Meta) Health(ctx *fiber.Ctx) error {
	if err := c.HealthService.Ping(ctx.UserContext()); err != nil {
		return apierr.ErrUnavailable.WithExtras(apierr.Extras{
			"reason": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"status": "ok",
	})
}
