// Package migrations holds the schema of the infrastructure tables and applies it
// with bun's migrator.
package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/xbg/ifood-admin/internal/model"
)

const lockName = "ifood-admin:migrations"

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.Add(migrate.Migration{
		Name:    "20200330000000",
		Comment: "create_properties",
		Up: func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewCreateTable().
				Model((*model.Property)(nil)).
				IfNotExists().
				Exec(ctx)
			return err
		},
		Down: func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().
				Model((*model.Property)(nil)).
				IfExists().
				Exec(ctx)
			return err
		},
	})
}

// Run applies every pending migration and returns the group that was applied, which is
// empty when the schema is already up to date. Concurrent runs from several instances are
// serialized with a redsync mutex when rs is not nil, and with bun's lock table otherwise.
func Run(ctx context.Context, db *bun.DB, rs *redsync.Redsync) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("migrations: failed to init migration tables: %w", err)
	}

	unlock, err := acquire(ctx, migrator, rs)
	if err != nil {
		return nil, fmt.Errorf("migrations: failed to acquire lock: %w", err)
	}
	defer unlock()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return group, fmt.Errorf("migrations: failed to migrate: %w", err)
	}

	if group.IsZero() {
		log.Info().Msg("migrations: schema is up to date")
	} else {
		log.Info().Str("group", group.String()).Msg("migrations: applied")
	}
	return group, nil
}

// Status reports the names of applied and pending migrations.
func Status(ctx context.Context, db *bun.DB) (applied, pending []string, err error) {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return nil, nil, err
	}

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, m := range ms.Applied() {
		applied = append(applied, m.String())
	}
	for _, m := range ms.Unapplied() {
		pending = append(pending, m.String())
	}
	return applied, pending, nil
}

func acquire(ctx context.Context, migrator *migrate.Migrator, rs *redsync.Redsync) (func(), error) {
	if rs != nil {
		mutex := rs.NewMutex(lockName, redsync.WithExpiry(time.Minute), redsync.WithTries(64))
		if err := mutex.LockContext(ctx); err != nil {
			return nil, err
		}
		return func() {
			if _, err := mutex.Unlock(); err != nil {
				log.Warn().Err(err).Msg("migrations: failed to release redsync lock")
			}
		}, nil
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, err
	}
	return func() {
		// ctx may already be cancelled here; the lock must still be released
		if err := migrator.Unlock(context.Background()); err != nil {
			log.Warn().Err(err).Msg("migrations: failed to release table lock")
		}
	}, nil
}
