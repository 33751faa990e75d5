package mux_api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/app"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "mux-api",
		Usage: "Provides the web API on net/http with gorilla/mux routing",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run mux web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8081",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					application, err := app.Load(c.String("config"))
					if err != nil {
						return err
					}
					defer application.Close()

					log.Info().Str("listen", c.String("listen")).Msg("Starting mux web api")

					return SetupServer(c.String("listen"), application)
				},
			},
		},
	}
}
