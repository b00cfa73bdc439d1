package app

import (
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/controller"
	"github.com/xbg/ifood-admin/internal/infra"
	"github.com/xbg/ifood-admin/internal/pkg/logger"
	"github.com/xbg/ifood-admin/internal/repo"
	"github.com/xbg/ifood-admin/internal/server"
	"github.com/xbg/ifood-admin/internal/server/httpserver"
	"github.com/xbg/ifood-admin/internal/service"
)

// Options is the composition root of the service. Every component is listed here
// explicitly. fx runs the invokes of the child modules first, in the order the modules
// are listed, then the root invokes below; that order is the order in which lifecycle
// hooks run on start, and the reverse of the order in which they run on stop.
// Resources acquired while the graph is built are tracked by rel.
func Options(conf *appconfig.Config, rel *infra.Releaser, additionalOpts ...fx.Option) []fx.Option {
	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),
		fx.Supply(rel),

		// Infrastructures: must stay the first module, its invokes reach every
		// connection before any other component is built.
		infra.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Servers
		server.Module(),

		// Controllers
		controller.Module(),

		// Listener, a root invoke: bound once connections are up and mappers are bound
		fx.Invoke(httpserver.Serve),

		// Announcements, sent once the listener is bound
		fx.Invoke((*service.Lifecycle).Register),

		// fx Extra Options
		fx.StartTimeout(conf.StartTimeout),
		// bound for all stop hooks together
		fx.StopTimeout(conf.ShutdownTimeout),
	}

	return append(baseOpts, additionalOpts...)
}

func New(conf *appconfig.Config, rel *infra.Releaser, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(conf, rel, additionalOpts...)...)
}
