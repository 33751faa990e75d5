package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/api"
	"github.com/travigo/relay/pkg/indexer"
	"github.com/travigo/relay/pkg/mux_api"
	"github.com/travigo/relay/pkg/rmv"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("RELAY_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("RELAY_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "relay",
		Description: "RMV journeys, Spotify playlists and the freeCodeCamp exercises behind one API",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file, environment variables override it",
				EnvVars: []string{"RELAY_CONFIG"},
			},
		},

		Commands: []*cli.Command{
			api.RegisterCLI(),
			mux_api.RegisterCLI(),
			serveCommand(),
			rmv.RegisterCLI(),
			indexer.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
