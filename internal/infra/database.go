package infra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/extra/bunotel"
	"go.uber.org/fx"
	_ "modernc.org/sqlite"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

// Database opens the connection pool the mapper layer is bound to. Opening the pool does
// not dial: reachability is checked by the OnStart hook, which runs before the listener
// binds. The pool is tracked by rel so that it is closed even when no hook runs.
func Database(conf *appconfig.Config, lc fx.Lifecycle, rel *Releaser) (*bun.DB, error) {
	db, err := openDatabase(conf)
	if err != nil {
		return nil, err
	}
	closeDB := rel.Track("database", func(context.Context) error {
		return db.Close()
	})

	if conf.DevMode || conf.BunDebugVerbose {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(conf.BunDebugVerbose),
		))
	}
	if conf.TracingEnabled {
		db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(string(conf.DatabaseDialect()))))
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, conf.DatabaseConnectTimeout)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				log.Error().Err(err).Str("dialect", string(conf.DatabaseDialect())).Msg("infra: database: failed to ping database")
				_ = closeDB(ctx)
				return starterr.Connection("database", err)
			}

			log.Info().Str("dialect", string(conf.DatabaseDialect())).Msg("infra: database: connected")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := closeDB(ctx); err != nil {
				log.Error().Err(err).Msg("infra: database: failed to close connection pool")
				return err
			}
			log.Info().Msg("infra: database: connection pool closed")
			return nil
		},
	})

	return db, nil
}

func openDatabase(conf *appconfig.Config) (db *bun.DB, err error) {
	switch conf.DatabaseDialect() {
	case appconfig.DialectPostgres:
		// pgdriver.WithDSN panics on a DSN it cannot parse
		defer func() {
			if r := recover(); r != nil {
				err = starterr.Configuration("database", fmt.Errorf("invalid postgres dsn: %v", r))
			}
		}()

		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(conf.DatabaseDSN),
			pgdriver.WithDialTimeout(conf.DatabaseConnectTimeout),
		))
		sqldb.SetMaxOpenConns(conf.DatabaseMaxOpenConns)
		sqldb.SetMaxIdleConns(conf.DatabaseMaxIdleConns)
		sqldb.SetConnMaxLifetime(conf.DatabaseConnMaxLifeTime)
		sqldb.SetConnMaxIdleTime(conf.DatabaseConnMaxIdleTime)

		return bun.NewDB(sqldb, pgdialect.New()), nil

	case appconfig.DialectSQLite:
		sqldb, err := sql.Open("sqlite", appconfig.SQLitePath(conf.DatabaseDSN))
		if err != nil {
			return nil, starterr.Configuration("database", err)
		}
		// a single long-lived connection: sqlite serializes writers anyway, and an
		// in-memory database lives exactly as long as its connection
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
		sqldb.SetConnMaxIdleTime(0)

		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	default:
		return nil, starterr.Configuration("database", fmt.Errorf("unsupported database dsn scheme"))
	}
}
