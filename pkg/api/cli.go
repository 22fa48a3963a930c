package api

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/global"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/smartbus/routeplanner/pkg/geocoding"
	"github.com/smartbus/routeplanner/pkg/mapview"
	"github.com/smartbus/routeplanner/pkg/redis_client"
	"github.com/smartbus/routeplanner/pkg/stats"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Value:   ":8080",
						Usage:   "listen target for the web server",
						EnvVars: []string{"SMARTBUS_LISTEN"},
					},
					&cli.BoolFlag{
						Name:  "require-database",
						Usage: "exit instead of running degraded when MongoDB can't be reached",
					},
					&cli.DurationFlag{
						Name:  "database-retry",
						Value: 30 * time.Second,
						Usage: "how long to keep retrying the MongoDB connection at startup",
					},
					&cli.StringFlag{
						Name:    "allow-origins",
						Value:   "*",
						Usage:   "origins allowed to call the API from a browser",
						EnvVars: []string{"SMARTBUS_ALLOW_ORIGINS"},
					},
				},
				Action: func(c *cli.Context) error {
					err := database.Connect(c.Context, database.ConnectOptions{RetryFor: c.Duration("database-retry")})
					if err != nil {
						if c.Bool("require-database") {
							return err
						}

						log.Error().Err(err).Msg("Continuing without a database, health checks will report degraded")
					}
					defer database.Disconnect(context.Background())

					var publisher *stats.Publisher
					if err := redis_client.Connect(); err != nil {
						redis_client.Reset()
						log.Warn().Err(err).Msg("Redis unavailable, route caching and trip search events are disabled")
					} else if publisher, err = stats.NewPublisher(redis_client.QueueConnection); err != nil {
						return err
					}

					if err := global.Setup(); err != nil {
						return err
					}

					region, err := geocoding.RegionFromEnvironment()
					if err != nil {
						return err
					}

					options := ServerOptions{
						Region:       region,
						Geocoder:     geocoding.NewClient(region),
						Tiles:        mapview.DefaultTileLayer(),
						AllowOrigins: c.String("allow-origins"),
					}
					if publisher != nil {
						options.Publisher = publisher
					}

					app := NewApp(options)

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					go func() {
						<-signals
						log.Info().Msg("Shutting down web api")
						app.ShutdownWithTimeout(10 * time.Second)
					}()

					return app.Listen(c.String("listen"))
				},
			},
		},
	}
}
