package cliapp

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/app/appcontext"
	"github.com/xbg/ifood-admin/internal/infra"
	"github.com/xbg/ifood-admin/internal/pkg/logger"
)

// AppContext builds the application context from the global flags.
func AppContext(c *cli.Context, env appcontext.Env) appcontext.Ctx {
	return appcontext.Declare(env).
		WithProfile(c.String("profile")).
		WithOverrides(appcontext.Overrides{
			ServiceAddress: c.String("address"),
			DatabaseDSN:    c.String("database-dsn"),
		})
}

// Start parses the configuration and starts a short-lived application that holds the
// infrastructure connections, without binding the listener. The returned func releases
// them.
func Start(c *cli.Context, opts ...fx.Option) (stop func(), err error) {
	conf, err := appconfig.Parse(AppContext(c, appcontext.EnvCLI))
	if err != nil {
		return nil, err
	}
	logger.Configure(conf)

	rel := infra.NewReleaser()
	baseOpts := []fx.Option{
		fx.WithLogger(logger.Fx),
		fx.Supply(conf),
		fx.Supply(rel),
		infra.Module(),
	}
	fxApp := fx.New(append(baseOpts, opts...)...)

	startCtx, cancel := context.WithTimeout(c.Context, conf.StartTimeout)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		releaseCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()
		_ = rel.Release(releaseCtx)
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()
		if err := fxApp.Stop(ctx); err != nil {
			log.Warn().Err(err).Msg("cli: failed to release connections")
		}
	}, nil
}
