package meta

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/pkg/apierr"
	"github.com/xbg/ifood-admin/internal/pkg/cachectrl"
	"github.com/xbg/ifood-admin/internal/server/svr"
	"github.com/xbg/ifood-admin/internal/service"
)

type Property struct {
	fx.In

	PropertyService *service.Property
}

func RegisterProperty(meta *svr.Meta, c Property) {
	meta.Get("/properties", c.GetProperties)
	meta.Get("/properties/:key", c.GetPropertyByKey)
}

func (c *Property) GetProperties(ctx *fiber.Ctx) error {
	properties, err := c.PropertyService.GetPropertiesMap(ctx.UserContext())
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)

	return ctx.JSON(properties)
}

func (c *Property) GetPropertyByKey(ctx *fiber.Ctx) error {
	key := ctx.Params("key")
	if key == "" {
		return apierr.ErrInvalidReq
	}

	property, err := c.PropertyService.GetPropertyByKey(ctx.UserContext(), key)
	if err != nil {
		return err
	}

	if cachectrl.Revalidate(ctx, property.UpdatedAt) {
		return nil
	}
	return ctx.JSON(property)
}
