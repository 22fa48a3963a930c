package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/api"
	"github.com/smartbus/routeplanner/pkg/dataimporter"
	"github.com/smartbus/routeplanner/pkg/geocoding"
	"github.com/smartbus/routeplanner/pkg/stats"
	"github.com/smartbus/routeplanner/pkg/tripsearch"
	"github.com/smartbus/routeplanner/pkg/util"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	util.LoadDotEnv()

	if os.Getenv("SMARTBUS_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("SMARTBUS_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "smartbus",
		Description: "Smart bus route planner - web api, trip planning tools and background workers",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			tripsearch.RegisterCLI(),
			geocoding.RegisterCLI(),
			dataimporter.RegisterCLI(),
			stats.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
