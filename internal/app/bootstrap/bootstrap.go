// Package bootstrap drives the process from configuration to a running listener and back:
// NOT_STARTED -> STARTING -> RUNNING -> STOPPING -> STOPPED, or STARTING -> STOPPED when
// any part of the startup fails.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app"
	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/app/appcontext"
	"github.com/xbg/ifood-admin/internal/infra"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/pkg/logger"
	"github.com/xbg/ifood-admin/internal/pkg/observability"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

var launched atomic.Bool

// Run parses the configuration from the environment, starts the service and blocks until
// it is told to stop. It may only be called once per process.
func Run(ctx context.Context, appCtx appcontext.Ctx, opts ...Option) error {
	if !launched.CompareAndSwap(false, true) {
		return starterr.ErrAlreadyStarted
	}
	return New(appCtx, opts...).Run(ctx)
}

type Option func(b *Bootstrapper)

// WithConfig skips configuration parsing and uses conf as is.
func WithConfig(conf *appconfig.Config) Option {
	return func(b *Bootstrapper) {
		b.conf = conf
	}
}

// WithFxOptions appends opts to the composition root.
func WithFxOptions(opts ...fx.Option) Option {
	return func(b *Bootstrapper) {
		b.fxOpts = append(b.fxOpts, opts...)
	}
}

// WithSignals replaces the signals that trigger a shutdown. Defaults to SIGINT and SIGTERM.
func WithSignals(signals ...os.Signal) Option {
	return func(b *Bootstrapper) {
		b.signals = signals
	}
}

type Bootstrapper struct {
	appCtx  appcontext.Ctx
	conf    *appconfig.Config
	fxOpts  []fx.Option
	signals []os.Signal

	state    atomic.Int32
	ready    chan struct{}
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func New(appCtx appcontext.Ctx, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		appCtx:  appCtx,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bootstrapper) State() State {
	return State(b.state.Load())
}

// Ready is closed once the bootstrapper enters RUNNING. It is never closed if startup fails.
func (b *Bootstrapper) Ready() <-chan struct{} {
	return b.ready
}

// Done is closed once the bootstrapper enters STOPPED, whichever way it got there.
func (b *Bootstrapper) Done() <-chan struct{} {
	return b.done
}

// Stop asks a running bootstrapper to shut down, as a termination signal would.
func (b *Bootstrapper) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
}

// Run starts the service and blocks until a shutdown is requested through a signal,
// the cancellation of ctx or Stop. It returns nil after a clean shutdown and a
// *starterr.Error if the startup failed; resources acquired by a failed startup are
// released before it returns. A Bootstrapper runs at most once.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if !b.state.CompareAndSwap(int32(StateNotStarted), int32(StateStarting)) {
		return starterr.ErrAlreadyStarted
	}
	b.transition(StateStarting)

	// registered before anything starts so that a signal received while starting is
	// acted upon as soon as the startup completes
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, b.signals...)
	defer signal.Stop(sigs)

	startedAt := time.Now()
	fxApp, err := b.start(ctx)
	if err != nil {
		observability.StartupDuration.WithLabelValues("failure").Observe(time.Since(startedAt).Seconds())
		observability.StartupFailures.WithLabelValues(starterr.KindOf(err).String()).Inc()
		log.Error().
			Err(err).
			Str("kind", starterr.KindOf(err).String()).
			Msg("bootstrap: startup failed")

		b.transition(StateStopped)
		close(b.done)
		return err
	}

	observability.StartupDuration.WithLabelValues("success").Observe(time.Since(startedAt).Seconds())
	b.transition(StateRunning)
	close(b.ready)
	log.Info().
		Str("version", bininfo.Version).
		Dur("took", time.Since(startedAt)).
		Msg("bootstrap: running")

	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("bootstrap: received shutdown signal")
	case <-ctx.Done():
		log.Info().Err(ctx.Err()).Msg("bootstrap: context done")
	case <-b.stop:
		log.Info().Msg("bootstrap: stop requested")
	}

	b.transition(StateStopping)

	// ctx may be the reason we are stopping, so the grace period is not derived from it
	stopCtx, cancel := context.WithTimeout(context.Background(), b.conf.ShutdownTimeout)
	defer cancel()
	err = fxApp.Stop(stopCtx)

	b.transition(StateStopped)
	close(b.done)

	if err != nil {
		log.Error().Err(err).Msg("bootstrap: shutdown completed with errors")
		return fmt.Errorf("bootstrap: shutdown: %w", err)
	}

	log.Info().Msg("bootstrap: stopped")
	return nil
}

func (b *Bootstrapper) start(ctx context.Context) (*fx.App, error) {
	if b.conf == nil {
		conf, err := appconfig.Parse(b.appCtx)
		if err != nil {
			return nil, err
		}
		b.conf = conf
	}

	logger.Configure(b.conf)
	log.Info().
		Str("env", b.appCtx.Env.String()).
		Str("profile", b.appCtx.Profile).
		Msg("bootstrap: starting")

	rel := infra.NewReleaser()
	fxApp := app.New(b.conf, rel, b.fxOpts...)
	if err := fxApp.Err(); err != nil {
		// no hook will ever run; give back what the constructors acquired
		b.release(rel)
		return nil, classify("dependency graph", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, b.conf.StartTimeout)
	defer cancel()

	// on failure fx has already run the stop hooks of everything that did start;
	// components whose OnStart never ran are released here
	if err := fxApp.Start(startCtx); err != nil {
		b.release(rel)
		return nil, classify("startup", err)
	}

	return fxApp, nil
}

func (b *Bootstrapper) release(rel *infra.Releaser) {
	ctx, cancel := context.WithTimeout(context.Background(), b.conf.ShutdownTimeout)
	defer cancel()

	if err := rel.Release(ctx); err != nil {
		log.Warn().Err(err).Msg("bootstrap: failed to release resources of a failed startup")
	}
}

func (b *Bootstrapper) transition(s State) {
	b.state.Store(int32(s))
	observability.LifecycleState.Set(float64(s))
	log.Debug().Str("state", s.String()).Msg("bootstrap: state changed")
}

// classify keeps the kind of a *starterr.Error reported by a component and files
// anything else as a lifecycle error.
func classify(component string, err error) error {
	if starterr.KindOf(err) != starterr.KindUnknown {
		return err
	}
	return starterr.New(starterr.KindLifecycle, component, err)
}
