package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/migrations"
	"github.com/xbg/ifood-admin/internal/pkg/observability"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

// Mapper is implemented by every repository bound to the database.
type Mapper interface {
	MapperName() string
}

type MapperOut struct {
	fx.Out

	Mapper Mapper `group:"mappers"`
}

type RegistryDeps struct {
	fx.In

	Conf    *appconfig.Config
	DB      *bun.DB
	RedSync *redsync.Redsync
	Mappers []Mapper `group:"mappers"`
}

// Registry records the mappers bound at startup. Its OnStart hook runs after the database
// has been reached and applies pending migrations when auto migration is enabled.
type Registry struct {
	names []string
}

func NewRegistry(deps RegistryDeps, lc fx.Lifecycle) (*Registry, error) {
	names := lo.Map(deps.Mappers, func(m Mapper, _ int) string {
		return m.MapperName()
	})
	sort.Strings(names)

	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return nil, starterr.New(starterr.KindLifecycle, "repo", &DuplicateMapperError{Names: dup})
	}

	r := &Registry{names: names}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if deps.Conf.DatabaseAutoMigrate {
				if _, err := migrations.Run(ctx, deps.DB, deps.RedSync); err != nil {
					return starterr.Connection("migrations", err)
				}
			}

			observability.MappersBound.Set(float64(len(r.names)))
			log.Info().Strs("mappers", r.names).Msg("repo: mappers bound")
			return nil
		},
	})

	return r, nil
}

// Names returns the sorted names of the bound mappers.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

type DuplicateMapperError struct {
	Names []string
}

func (e *DuplicateMapperError) Error() string {
	return "repo: duplicate mapper names: " + strings.Join(e.Names, ", ")
}
