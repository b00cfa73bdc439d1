package controller

import (
	"go.uber.org/fx"

	controllermeta "github.com/xbg/ifood-admin/internal/controller/meta"
)

func Module() fx.Option {
	return fx.Module("controller",
		// Controllers (meta)
		controllermeta.Module(),
	)
}
