package rmv

import (
	"github.com/kr/pretty"
	"github.com/travigo/relay/pkg/config"
	"github.com/urfave/cli/v2"
)

func loadFromConfig(c *cli.Context) (*Directory, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	return LoadDirectory(cfg.StationsFile)
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stations",
		Usage: "Look up stations in the RMV station list",
		Subcommands: []*cli.Command{
			{
				Name:  "find",
				Usage: "find stations whose name contains every term of the query",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Usage:    "space separated search terms",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					directory, err := loadFromConfig(c)
					if err != nil {
						return err
					}

					stations, err := directory.FindByNameQuery(c.String("query"))
					if err != nil {
						return err
					}

					pretty.Println(stations)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "show a single station by HAFAS id",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					directory, err := loadFromConfig(c)
					if err != nil {
						return err
					}

					station, err := directory.FindByID(c.String("id"))
					if err != nil {
						return err
					}

					pretty.Println(station)
					return nil
				},
			},
		},
	}
}
