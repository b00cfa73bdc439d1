package httpserver

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
	"github.com/xbg/ifood-admin/internal/repo"
)

var ErrAlreadyListening = errors.New("listener: already listening")

// Listener owns the service socket: it binds the configured address on Start, serves the
// fiber app on it, and guarantees the socket is closed by the time Stop returns.
type Listener struct {
	conf *appconfig.Config
	app  *fiber.App

	mu     sync.Mutex
	ln     net.Listener
	served chan struct{}
}

func NewListener(conf *appconfig.Config, app *fiber.App) *Listener {
	return &Listener{
		conf: conf,
		app:  app,
	}
}

// Addr returns the bound address, or nil when the listener is not bound.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return starterr.New(starterr.KindLifecycle, "listener", ErrAlreadyListening)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", l.conf.ServiceAddress)
	if err != nil {
		log.Error().Err(err).Str("address", l.conf.ServiceAddress).Msg("server: failed to bind listener")
		return starterr.Bind("listener", err)
	}

	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := l.app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error().Err(err).Msg("server terminated unexpectedly")
		}
	}()

	l.ln = ln
	l.served = served

	log.Info().Str("address", ln.Addr().String()).Msg("server: listening")
	return nil
}

func (l *Listener) Stop(ctx context.Context) error {
	l.mu.Lock()
	ln, served := l.ln, l.served
	l.ln, l.served = nil, nil
	l.mu.Unlock()

	if ln == nil {
		return nil
	}

	err := l.app.ShutdownWithContext(ctx)

	// fiber only closes the socket once serving has begun; close it ourselves in case
	// shutdown raced the serving goroutine
	if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		err = errors.Join(err, cerr)
	}

	select {
	case <-served:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}

	log.Info().Str("address", ln.Addr().String()).Msg("server: listener released")
	return err
}

type ServeDeps struct {
	fx.In

	Listener  *Listener
	Lifecycle fx.Lifecycle

	// Mappers are bound, and migrated when enabled, before the first request is accepted.
	Registry *repo.Registry
}

// Serve registers the listener with the application lifecycle.
func Serve(deps ServeDeps) {
	deps.Lifecycle.Append(fx.Hook{
		OnStart: deps.Listener.Start,
		OnStop:  deps.Listener.Stop,
	})
}
