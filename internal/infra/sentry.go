package infra

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

// SentryInit initializes sentry with side-effect
func SentryInit(conf *appconfig.Config, lc fx.Lifecycle) error {
	if conf.SentryDSN == "" {
		log.Warn().Msg("Sentry is disabled due to missing DSN.")
		return nil
	}

	log.Info().Msg("Initializing Sentry...")
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		Release:          bininfo.Name + "@" + bininfo.Version,
		Debug:            conf.DevMode,
		AttachStacktrace: true,
		TracesSampleRate: 0.01,
	})
	if err != nil {
		return starterr.Configuration("sentry", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sentry.Flush(time.Second * 2)
			return nil
		},
	})
	return nil
}
