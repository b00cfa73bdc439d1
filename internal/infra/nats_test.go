package infra

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

func natsConfig(url string) *appconfig.Config {
	return &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{NatsURL: url}}
}

func TestBusPublish(t *testing.T) {
	srv := test.RunRandClientPortServer()
	defer srv.Shutdown()

	sub, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("ifood-admin.test", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	var bus *Bus
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(natsConfig(srv.ClientURL())),
		fx.Provide(NATS),
		fx.Populate(&bus),
	)

	// dialed by the start hook only
	require.NotNil(t, bus)
	assert.Equal(t, nats.CLOSED, bus.Status())
	assert.ErrorIs(t, bus.Publish(context.Background(), "ifood-admin.test", []byte("early")), ErrBusNotConnected)

	app.RequireStart()
	assert.Equal(t, nats.CONNECTED, bus.Status())

	require.NoError(t, bus.Publish(context.Background(), "ifood-admin.test", []byte("hello")))
	select {
	case msg := <-msgs:
		assert.Equal(t, "hello", string(msg.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("message was not delivered")
	}

	app.RequireStop()
	assert.Equal(t, nats.CLOSED, bus.Status())
	assert.ErrorIs(t, bus.Publish(context.Background(), "ifood-admin.test", []byte("late")), ErrBusNotConnected)
}

func TestBusUnreachable(t *testing.T) {
	var bus *Bus
	app := fx.New(
		fx.NopLogger,
		fx.Supply(natsConfig("nats://127.0.0.1:1")),
		fx.Provide(NATS),
		fx.Populate(&bus),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := app.Start(ctx)
	require.Error(t, err)
	assert.Equal(t, starterr.KindConnection, starterr.KindOf(err))
	assert.Equal(t, nats.CLOSED, bus.Status())
}

func TestBusDisabled(t *testing.T) {
	var bus *Bus
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(natsConfig("")),
		fx.Provide(NATS),
		fx.Populate(&bus),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Nil(t, bus)
}
