package server

import (
	"github.com/urfave/cli/v2"

	"github.com/xbg/ifood-admin/cmd/app/cliapp"
	"github.com/xbg/ifood-admin/internal/app/appcontext"
	"github.com/xbg/ifood-admin/internal/app/bootstrap"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "start server",
		Action: func(c *cli.Context) error {
			return bootstrap.Run(c.Context, cliapp.AppContext(c, appcontext.EnvServer))
		},
	}
}
