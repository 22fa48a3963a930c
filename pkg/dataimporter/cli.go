package dataimporter

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/smartbus/routeplanner/pkg/dataimporter/gtfs"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Import third party datasets into the stops collection",
		Subcommands: []*cli.Command{
			{
				Name:  "stops",
				Usage: "Import bus stops from a GTFS stops.txt or GTFS zip",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "path to stops.txt or a GTFS zip",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "dataset identifier recorded against each stop, defaults to the file name",
					},
					&cli.StringFlag{
						Name:  "provider",
						Value: "Integrated Transport Centre",
						Usage: "provider recorded against each stop",
					},
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat this file import every X (eg. 24h)",
						Required: false,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(c.Context, database.ConnectOptions{RetryFor: time.Minute}); err != nil {
						return err
					}
					defer database.Disconnect(context.Background())

					path := c.String("file")
					dataset := c.String("dataset")
					if dataset == "" {
						dataset = filepath.Base(path)
					}

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						var err error
						repeatDuration, err = time.ParseDuration(repeatEvery)

						if err != nil {
							return err
						}
					}

					for {
						startTime := time.Now()

						stops, err := gtfs.ReadStopsFile(path)
						if err != nil {
							return err
						}

						datasource := &ctdf.DataSource{
							OriginalFormat: "GTFS",
							Provider:       c.String("provider"),
							Dataset:        dataset,
							Identifier:     startTime.Format(time.RFC3339),
							Timestamp:      startTime,
						}

						if _, err := gtfs.ImportStops(c.Context, stops, datasource); err != nil {
							return err
						}

						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration

						if waitTime.Seconds() > 0 {
							select {
							case <-c.Context.Done():
								return nil
							case <-time.After(waitTime):
							}
						}
					}

					return nil
				},
			},
		},
	}
}
