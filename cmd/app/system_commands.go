package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/codepool/cmd/app/commands"
	"github.com/allisson/codepool/internal/app"
	"github.com/allisson/codepool/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "with-outbox-worker",
					Value: false,
					Usage: "Also drain the outbox in this process (always on for the memory driver)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version, cmd.Bool("with-outbox-worker"))
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "outbox-worker",
			Usage: "Process queued events and email stock alerts to admins",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(context.Background()) }()

				outboxUseCase, err := container.OutboxUseCase()
				if err != nil {
					return err
				}

				return commands.RunOutboxWorker(ctx, outboxUseCase, container.Logger())
			},
		},
	}
}
