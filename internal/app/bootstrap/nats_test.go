package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
	"github.com/xbg/ifood-admin/internal/service"
)

func receiveEvent(t *testing.T, msgs <-chan *nats.Msg) (string, service.LifecycleEvent) {
	t.Helper()

	select {
	case msg := <-msgs:
		var evt service.LifecycleEvent
		require.NoError(t, json.Unmarshal(msg.Data, &evt))
		return msg.Subject, evt
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a lifecycle event")
		return "", service.LifecycleEvent{}
	}
}

func TestLifecycleAnnouncements(t *testing.T) {
	srv := natstest.RunRandClientPortServer()
	defer srv.Shutdown()

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()
	msgs := make(chan *nats.Msg, 4)
	_, err = nc.ChanSubscribe("ifood-admin.lifecycle.>", msgs)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	r := start(t, context.Background(), testConfig(t, func(spec *appconfig.ConfigSpec) {
		spec.NatsURL = srv.ClientURL()
	}))
	r.requireReady(t)
	bound := r.listener.Addr().String()

	// the configured address asks for port 0, so only a bound listener reports a real port
	subject, evt := receiveEvent(t, msgs)
	assert.Equal(t, service.SubjectStarted, subject)
	assert.Equal(t, bound, evt.Address)

	status, _ := get(t, r.listener.Addr(), "/api/_/health")
	assert.Equal(t, http.StatusOK, status)

	r.b.Stop()
	require.NoError(t, r.requireExit(t))

	// published while the listener still held its port
	subject, evt = receiveEvent(t, msgs)
	assert.Equal(t, service.SubjectStopping, subject)
	assert.Equal(t, bound, evt.Address)

	requireReleased(t, bound, r.db)
}

func TestUnreachableNATSNeverBinds(t *testing.T) {
	addr := freeAddr(t)
	r := start(t, context.Background(), testConfig(t, func(spec *appconfig.ConfigSpec) {
		spec.ServiceAddress = addr
		spec.NatsURL = "nats://127.0.0.1:1"
	}))

	err := r.requireExit(t)
	require.Error(t, err)
	assert.Equal(t, starterr.KindConnection, starterr.KindOf(err))
	assert.Equal(t, StateStopped, r.b.State())

	assert.Nil(t, r.listener.Addr())
	requireReleased(t, addr, r.db)
}
