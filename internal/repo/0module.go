package repo

import (
	"go.uber.org/fx"
)

// Module binds every mapper of the repository layer. A new mapper is added by listing
// its constructor here and contributing it to the mapper group.
func Module() fx.Option {
	return fx.Module("repo",
		fx.Provide(
			NewProperty,
		),
		fx.Provide(
			asMapper[*Property],
		),
		fx.Provide(NewRegistry),
	)
}

func asMapper[T Mapper](m T) MapperOut {
	return MapperOut{Mapper: m}
}
