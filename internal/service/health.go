package service

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/xbg/ifood-admin/internal/infra"
)

var (
	ErrDatabaseNotReachable = errors.New("database not reachable")
	ErrRedisNotReachable    = errors.New("redis not reachable")
	ErrNATSNotReachable     = errors.New("nats not reachable")
)

type Health struct {
	DB    *bun.DB
	Redis *redis.Client
	Bus   *infra.Bus
}

func NewHealth(db *bun.DB, redis *redis.Client, bus *infra.Bus) *Health {
	return &Health{
		DB:    db,
		Redis: redis,
		Bus:   bus,
	}
}

// Ping checks every configured dependency. Redis and NATS are skipped when disabled.
func (s *Health) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return errors.Wrap(ErrDatabaseNotReachable, err.Error())
	}

	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return errors.Wrap(ErrRedisNotReachable, err.Error())
		}
	}

	// nats does automatic ping for 20 seconds interval (configured at infra/nats.go)
	if s.Bus != nil {
		status := s.Bus.Status()
		if status != nats.CONNECTED && status != nats.DRAINING_PUBS && status != nats.DRAINING_SUBS {
			return errors.Wrap(ErrNATSNotReachable, status.String())
		}
	}

	return nil
}
