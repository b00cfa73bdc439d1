package config

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xbg/ifood-admin/cmd/app/cliapp"
	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/app/appcontext"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect the configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "check",
				Usage: "parse and validate the configuration without starting anything",
				Action: func(c *cli.Context) error {
					conf, err := appconfig.Parse(cliapp.AppContext(c, appcontext.EnvCLI))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "configuration ok: address=%s dialect=%s\n",
						conf.ServiceAddress, conf.DatabaseDialect())
					return nil
				},
			},
			{
				Name:  "usage",
				Usage: "list every recognized environment variable",
				Action: func(c *cli.Context) error {
					return appconfig.Usage()
				},
			},
		},
	}
}
