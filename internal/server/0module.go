package server

import (
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/server/httpserver"
	"github.com/xbg/ifood-admin/internal/server/svr"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(httpserver.Create),
		fx.Provide(httpserver.NewListener),
		fx.Provide(svr.CreateEndpointGroups))
}
