package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/codepool/cmd/app/commands"
	"github.com/allisson/codepool/internal/app"
	"github.com/allisson/codepool/internal/config"
	cryptoService "github.com/allisson/codepool/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-api-key",
			Usage: "Generate an API key and the hash to configure on the server",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Key role: 'admin' or 'storefront'",
				},
				formatFlag,
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunCreateAPIKey(
					container.APIKeyService(),
					commands.DefaultIO().Writer,
					cmd.String("role"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-encryption-secret",
			Usage: "Generate the server secret that protects pooled codes",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Wrap the secret with this KMS key (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunCreateEncryptionSecret(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
