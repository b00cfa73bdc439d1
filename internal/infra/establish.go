package infra

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

type Connections struct {
	fx.In

	// Tracing comes first so the database query hook reports to a live provider.
	Tracing *tracesdk.TracerProvider
	DB      *bun.DB
	Redis   *redis.Client
	Bus     *Bus
}

// Establish is the first invoke of the application. Requesting every connection here makes
// their lifecycle hooks register, and therefore run, before any other component's: the
// dependencies are reached before the service port is bound.
func Establish(c Connections) {
	log.Info().
		Bool("tracing", c.Tracing != nil).
		Bool("redis", c.Redis != nil).
		Bool("nats", c.Bus != nil).
		Msg("infra: connections registered")
}
