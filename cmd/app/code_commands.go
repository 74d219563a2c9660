package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/codepool/cmd/app/commands"
	"github.com/allisson/codepool/internal/app"
	"github.com/allisson/codepool/internal/config"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Value:   "text",
	Usage:   "Output format: 'text' or 'json'",
}

func getCodeCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-code",
			Usage: "Add one code, read from stdin, to a plan pool",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "plan-id",
					Aliases: []string{"p"},
					Usage:   "Existing plan ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Plan name, used when --plan-id is not given",
				},
				&cli.StringFlag{
					Name:    "kind",
					Aliases: []string{"k"},
					Usage:   "Plan kind: 'data_code' or 'tv_subscription'",
				},
				&cli.Int64Flag{
					Name:  "price-cents",
					Usage: "Plan price in cents",
				},
				&cli.StringFlag{
					Name:  "data-allowance",
					Usage: "Plan data allowance, e.g. 5GB",
				},
				&cli.IntFlag{
					Name:  "duration-days",
					Usage: "Plan validity in days",
				},
				formatFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				issuer, err := container.IssuerUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueCode(ctx, issuer, container.Logger(), commands.DefaultIO(),
					commands.IssueCodeOptions{
						PlanID:        cmd.String("plan-id"),
						Name:          cmd.String("name"),
						Kind:          cmd.String("kind"),
						PriceCents:    cmd.Int64("price-cents"),
						DataAllowance: cmd.String("data-allowance"),
						DurationDays:  int(cmd.Int("duration-days")),
						Format:        cmd.String("format"),
					})
			},
		},
		{
			Name:  "pool-status",
			Usage: "Show the number of available codes per plan",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "plan-id",
					Aliases: []string{"p"},
					Usage:   "Only show this plan (UUID)",
				},
				formatFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				planUseCase, err := container.PlanUseCase()
				if err != nil {
					return err
				}

				return commands.RunPoolStatus(
					ctx,
					planUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("plan-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "delete-plan",
			Usage: "Delete a plan and every unclaimed code in its pool",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "plan-id",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Plan ID (UUID)",
				},
				formatFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				planUseCase, err := container.PlanUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeletePlan(
					ctx,
					planUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("plan-id"),
					cmd.String("format"),
				)
			},
		},
	}
}
