package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

var ErrBusNotConnected = errors.New("nats: not connected")

// Bus is the connection to the NATS server. It is dialed by its OnStart hook rather
// than by the constructor so that a failed startup never leaves it half open.
type Bus struct {
	url string

	mu     sync.RWMutex
	conn   *nats.Conn
	closed chan struct{}
}

// NATS returns a nil *Bus when no NatsURL is configured.
func NATS(conf *appconfig.Config, lc fx.Lifecycle) *Bus {
	if conf.NatsURL == "" {
		log.Info().Msg("infra: nats: disabled due to missing url")
		return nil
	}

	b := &Bus{url: conf.NatsURL}
	lc.Append(fx.Hook{
		OnStart: b.connect,
		OnStop:  b.drain,
	})
	return b
}

func (b *Bus) connect(ctx context.Context) error {
	errorHandler := func(conn *nats.Conn, sub *nats.Subscription, err error) {
		evt := log.Error().
			Str("evt.name", "nats.error").
			Err(err).
			Str("conn.url", conn.ConnectedUrlRedacted())
		if sub != nil {
			evt = evt.Str("sub.subject", sub.Subject)
		}
		evt.Msg("nats error")
	}

	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	closed := make(chan struct{})
	nc, err := nats.Connect(b.url,
		nats.Name(bininfo.Name),
		nats.Timeout(timeout),
		nats.PingInterval(time.Second*20),
		nats.ErrorHandler(errorHandler),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
	)
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to connect to NATS")
		return starterr.Connection("nats", err)
	}

	b.mu.Lock()
	b.conn = nc
	b.closed = closed
	b.mu.Unlock()

	log.Info().Str("url", nc.ConnectedUrlRedacted()).Msg("infra: nats: connected")
	return nil
}

func (b *Bus) drain(ctx context.Context) error {
	b.mu.Lock()
	nc, closed := b.conn, b.closed
	b.conn = nil
	b.mu.Unlock()

	if nc == nil {
		return nil
	}
	if err := nc.Drain(); err != nil {
		nc.Close()
		return err
	}

	select {
	case <-closed:
		return nil
	case <-ctx.Done():
		nc.Close()
		return ctx.Err()
	}
}

// Publish sends data on subject and waits for the server to acknowledge the flush.
func (b *Bus) Publish(ctx context.Context, subject string, data []byte) error {
	b.mu.RLock()
	nc := b.conn
	b.mu.RUnlock()

	if nc == nil {
		return ErrBusNotConnected
	}
	if err := nc.Publish(subject, data); err != nil {
		return err
	}
	return nc.FlushWithContext(ctx)
}

func (b *Bus) Status() nats.Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.conn == nil {
		return nats.CLOSED
	}
	return b.conn.Status()
}
