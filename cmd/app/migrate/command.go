package migrate

import (
	"fmt"

	"github.com/go-redsync/redsync/v4"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/cmd/app/cliapp"
	"github.com/xbg/ifood-admin/internal/migrations"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

type CommandDeps struct {
	fx.In

	DB      *bun.DB
	RedSync *redsync.Redsync
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "status",
				Usage: "report applied and pending migrations without applying anything",
			},
		},
		Action: func(c *cli.Context) error {
			var deps CommandDeps
			stop, err := cliapp.Start(c, fx.Populate(&deps))
			if err != nil {
				return err
			}
			defer stop()

			if c.Bool("status") {
				return status(c, deps)
			}

			group, err := migrations.Run(c.Context, deps.DB, deps.RedSync)
			if err != nil {
				return starterr.Connection("migrations", err)
			}
			if group.IsZero() {
				fmt.Fprintln(c.App.Writer, "nothing to migrate")
			} else {
				fmt.Fprintf(c.App.Writer, "migrated to %s\n", group)
			}
			return nil
		},
	}
}

func status(c *cli.Context, deps CommandDeps) error {
	applied, pending, err := migrations.Status(c.Context, deps.DB)
	if err != nil {
		return starterr.Connection("migrations", err)
	}

	for _, name := range applied {
		fmt.Fprintf(c.App.Writer, "applied  %s\n", name)
	}
	for _, name := range pending {
		fmt.Fprintf(c.App.Writer, "pending  %s\n", name)
	}
	return nil
}
