package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/xbg/ifood-admin/cmd/app/config"
	"github.com/xbg/ifood-admin/cmd/app/migrate"
	"github.com/xbg/ifood-admin/cmd/app/server"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

func New() *cli.App {
	return &cli.App{
		Name:        bininfo.Name,
		Description: "Administrative backend of iFood. Built with Go, fiber, bun and go.uber.org/fx. Uses NATS for lifecycle events and Redis for distributed locks.",
		Version:     bininfo.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "load `.env.<profile>` before .env",
				EnvVars: []string{"IFOOD_ADMIN_PROFILE"},
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "override the listen address of the service",
			},
			&cli.StringFlag{
				Name:  "database-dsn",
				Usage: "override the database DSN",
			},
		},
		Commands: []*cli.Command{
			server.Command(),
			migrate.Command(),
			config.Command(),
		},
	}
}

// Run executes the command line and exits with the status matching the error, if any.
func Run() {
	if err := New().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("failed to run app")
		os.Exit(starterr.ExitCode(err))
	}
}
