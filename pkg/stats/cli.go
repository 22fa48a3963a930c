package stats

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/consumer"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/smartbus/routeplanner/pkg/elastic_client"
	"github.com/smartbus/routeplanner/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Records trip search statistics",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "consume trip search events into MongoDB and Elasticsearch",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":3333",
						Usage: "listen target for the queue stats server, empty to disable",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(c.Context, database.ConnectOptions{RetryFor: time.Minute}); err != nil {
						return err
					}
					defer database.Disconnect(context.Background())

					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}
					defer elastic_client.WaitUntilQueueEmpty()

					redisConsumer := consumer.RedisConsumer{
						QueueName:       TripSearchQueue,
						NumberConsumers: 2,
						BatchSize:       50,
						Timeout:         2 * time.Second,
						Consumer:        NewTripSearchBatchConsumer(MongoStore{}),
						StatsListen:     c.String("listen"),
					}

					go func() {
						if err := redisConsumer.Setup(); err != nil {
							log.Fatal().Err(err).Msg("Failed to start trip search consumers")
						}
					}()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
		},
	}
}
