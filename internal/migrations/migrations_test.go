package migrations

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/xbg/ifood-admin/internal/model"
)

func openDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", "file:"+xid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunWithTableLock(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	group, err := Run(ctx, db, nil)
	require.NoError(t, err)
	assert.False(t, group.IsZero())

	_, err = db.NewInsert().Model(&model.Property{Key: "k", Value: "v", UpdatedAt: time.Now()}).Exec(ctx)
	require.NoError(t, err)

	// a second run is a no-op
	group, err = Run(ctx, db, nil)
	require.NoError(t, err)
	assert.True(t, group.IsZero())

	applied, pending, err := Status(ctx, db)
	require.NoError(t, err)
	assert.Len(t, applied, 1)
	assert.Empty(t, pending)
}

func TestRunWithRedsync(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rs := redsync.New(goredis.NewPool(client))

	group, err := Run(ctx, db, rs)
	require.NoError(t, err)
	assert.False(t, group.IsZero())

	// the mutex is released once the run finishes
	assert.False(t, mr.Exists(lockName))
}

func TestStatusBeforeRun(t *testing.T) {
	applied, pending, err := Status(context.Background(), openDB(t))
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Len(t, pending, 1)
}
