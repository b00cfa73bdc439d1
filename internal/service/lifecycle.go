package service

import (
	"context"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/infra"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/server/httpserver"
)

const (
	SubjectStarted  = "ifood-admin.lifecycle.started"
	SubjectStopping = "ifood-admin.lifecycle.stopping"
)

type LifecycleEvent struct {
	Instance string    `json:"instance"`
	Version  string    `json:"version"`
	Address  string    `json:"address"`
	At       time.Time `json:"at"`
}

// Lifecycle announces that the instance has started serving and that it is about to stop.
// Its hooks are registered after the listener's, so "started" is only announced once the
// port is bound and "stopping" goes out before the listener is released.
type Lifecycle struct {
	conf     *appconfig.Config
	bus      *infra.Bus
	listener *httpserver.Listener
	instance string
}

func NewLifecycle(conf *appconfig.Config, bus *infra.Bus, listener *httpserver.Listener) *Lifecycle {
	instance, err := os.Hostname()
	if err != nil {
		instance = "unknown"
	}
	return &Lifecycle{
		conf:     conf,
		bus:      bus,
		listener: listener,
		instance: instance,
	}
}

// Register is invoked after the listener has been wired.
func (s *Lifecycle) Register(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().
				Str("version", bininfo.Version).
				Str("address", s.address()).
				Msg("service: lifecycle: started")
			s.announce(ctx, SubjectStarted)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("service: lifecycle: stopping")
			s.announce(ctx, SubjectStopping)
			return nil
		},
	})
}

func (s *Lifecycle) address() string {
	if addr := s.listener.Addr(); addr != nil {
		return addr.String()
	}
	return s.conf.ServiceAddress
}

// announce is best effort: a lost announcement never fails the lifecycle.
func (s *Lifecycle) announce(ctx context.Context, subject string) {
	if s.bus == nil {
		return
	}

	data, err := json.Marshal(LifecycleEvent{
		Instance: s.instance,
		Version:  bininfo.Version,
		Address:  s.address(),
		At:       time.Now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("service: lifecycle: failed to marshal event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*2)
	defer cancel()
	if err := s.bus.Publish(ctx, subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("service: lifecycle: failed to publish event")
	}
}
