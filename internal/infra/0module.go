package infra

import "go.uber.org/fx"

// Module provides the connections and runs Establish. fx runs the invokes of child
// modules in declaration order, ahead of the root's, so declaring this module first
// makes the connection hooks the first to be appended.
func Module() fx.Option {
	return fx.Module("infra",
		fx.Provide(
			Tracing,
			Database,
			Redis,
			RedSync,
			NATS,
		),
		fx.Invoke(Establish),
		fx.Invoke(SentryInit),
	)
}
