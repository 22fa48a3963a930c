package geocoding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "geocode",
		Usage:     "Search for places the way the location inputs do",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "dump the full candidate structs",
			},
		},
		Action: func(c *cli.Context) error {
			query := c.Args().First()
			if query == "" {
				return errors.New("a query must be provided")
			}

			region, err := RegionFromEnvironment()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, 15*time.Second)
			defer cancel()

			candidates, err := NewClient(region).Search(ctx, query)
			if err != nil {
				return err
			}

			if len(candidates) == 0 {
				fmt.Println("No locations found")
				return nil
			}

			if c.Bool("raw") {
				pretty.Println(candidates)
				return nil
			}

			for _, candidate := range candidates {
				fmt.Printf("%s\n    %s (%s)\n", candidate.MainAddress(), candidate.SubAddress(), candidate.Coordinate)
			}

			return nil
		},
	}
}
