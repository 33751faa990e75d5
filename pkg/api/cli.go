package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/app"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the RMV, Spotify and freeCodeCamp web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					application, err := app.Load(c.String("config"))
					if err != nil {
						return err
					}
					defer application.Close()

					log.Info().Str("listen", c.String("listen")).Msg("Starting fiber web api")

					return SetupServer(c.String("listen"), application)
				},
			},
		},
	}
}
