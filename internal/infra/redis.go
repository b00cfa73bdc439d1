package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

// Redis returns a nil client when no RedisURL is configured.
func Redis(conf *appconfig.Config, lc fx.Lifecycle, rel *Releaser) (*redis.Client, error) {
	if conf.RedisURL == "" {
		log.Info().Msg("infra: redis: disabled due to missing url")
		return nil, nil
	}

	u, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to parse redis url")
		return nil, starterr.Configuration("redis", err)
	}

	client := redis.NewClient(u)
	closeClient := rel.Track("redis", func(context.Context) error {
		return client.Close()
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, time.Second*5)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				log.Error().Err(err).Msg("infra: redis: failed to ping redis")
				_ = closeClient(ctx)
				return starterr.Connection("redis", err)
			}
			return nil
		},
		OnStop: closeClient,
	})

	return client, nil
}
