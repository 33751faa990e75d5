package indexer

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/config"
	"github.com/travigo/relay/pkg/elastic_client"
	"github.com/travigo/relay/pkg/rmv"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "indexer",
		Usage: "Indexes data into Elasticsearch",
		Subcommands: []*cli.Command{
			{
				Name:  "stations",
				Usage: "do an index of the RMV stations",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					directory, err := rmv.LoadDirectory(cfg.StationsFile)
					if err != nil {
						return err
					}

					client, err := elastic_client.Connect(cfg.Elasticsearch)
					if err != nil {
						return err
					}

					result, err := NewStationIndexer(client).Index(c.Context, directory)
					if err != nil {
						return err
					}

					log.Info().Str("index", result.Index).Strs("deleted", result.Deleted).Msg("Station index complete")

					return nil
				},
			},
		},
	}
}
