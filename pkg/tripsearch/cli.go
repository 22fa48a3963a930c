package tripsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/geocoding"
	"github.com/smartbus/routeplanner/pkg/geolocation"
	"github.com/smartbus/routeplanner/pkg/locationinput"
	"github.com/smartbus/routeplanner/pkg/mapview"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Plan a bus trip between two places from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Usage:    "origin search text, the first matching place is used",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "destination search text, the first matching place is used",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "optimisation",
				Value: string(ctdf.OptimisationTypeFastest),
				Usage: "one of fastest, cheapest, minimal_walking, greenest",
			},
			&cli.StringFlag{
				Name:  "here",
				Usage: "current position as lat,lon",
			},
			&cli.StringFlag{
				Name:    "api",
				Usage:   "web API base URL, without it the built in mock planner is used",
				EnvVars: []string{"SMARTBUS_API"},
			},
			&cli.BoolFlag{
				Name:  "map",
				Usage: "print the map model",
			},
		},
		Action: func(c *cli.Context) error {
			optimisation, err := ctdf.ParseOptimisationType(c.String("optimisation"))
			if err != nil {
				return err
			}

			region, err := geocoding.RegionFromEnvironment()
			if err != nil {
				return err
			}
			geocoder := geocoding.NewClient(region)

			var planner RoutePlanner = NewMockPlanner()
			if c.String("api") != "" {
				planner = NewHTTPPlanner(c.String("api"))
			}

			orchestrator := New(planner, WithDefaultCenter(region.Center()), WithOptimisation(optimisation))
			defer orchestrator.Close()

			if here := c.String("here"); here != "" {
				var locator geolocation.Locator = geolocation.Unavailable{}
				if position, err := ctdf.ParseCoordinate(here); err == nil {
					locator = geolocation.Fixed{Position: position}
				}

				if _, err := orchestrator.LocateMe(c.Context, locator); err != nil {
					fmt.Println(geolocation.Message)
				}
			}

			origin := locationinput.New(geocoder, locationinput.WithLabel("From"))
			defer origin.Close()
			origin.OnSelect(orchestrator.SetOrigin)

			destination := locationinput.New(geocoder, locationinput.WithLabel("To"))
			defer destination.Close()
			destination.OnSelect(orchestrator.SetDestination)

			for _, entry := range []struct {
				input *locationinput.Input
				text  string
			}{
				{origin, c.String("from")},
				{destination, c.String("to")},
			} {
				place, err := SelectFirst(c.Context, entry.input, entry.text)
				if err != nil {
					fmt.Printf("%s: %s\n", entry.input.State().Label, err)
					continue
				}
				fmt.Printf("%s: %s\n", entry.input.State().Label, place.Text)
			}

			result, err := orchestrator.Search(c.Context)
			if err != nil {
				var validationError *ValidationError
				if errors.As(err, &validationError) {
					fmt.Println(validationError.Error())
					return nil
				}

				fmt.Println(orchestrator.Session().Error)
				return err
			}

			fmt.Println(strings.Join(ResultsPanel(result), "\n"))

			if c.Bool("map") {
				mapInput := orchestrator.MapInput()
				mapInput.Tiles = mapview.DefaultTileLayer()

				pretty.Println(mapview.Render(mapInput))
			}

			return nil
		},
	}
}

// SelectFirst types text into the input, waits for the debounced lookup and
// picks the first suggestion
func SelectFirst(ctx context.Context, input *locationinput.Input, text string) (ctdf.PlaceQuery, error) {
	states := make(chan locationinput.State, 16)
	input.OnChange(func(state locationinput.State) {
		select {
		case states <- state:
		default:
		}
	})

	input.Type(text)
	sequence := input.State().Sequence

	if input.State().Phase == locationinput.PhaseIdle && len([]rune(text)) < geocoding.MinimumQueryLength {
		return ctdf.PlaceQuery{}, fmt.Errorf("search text must be at least %d characters", geocoding.MinimumQueryLength)
	}

	timeout := time.NewTimer(30 * time.Second)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctdf.PlaceQuery{}, ctx.Err()
		case <-timeout.C:
			return ctdf.PlaceQuery{}, errors.New("timed out waiting for location search")
		case state := <-states:
			if state.Sequence != sequence {
				continue
			}

			switch state.Phase {
			case locationinput.PhasePopulated:
				return input.Select(0)
			case locationinput.PhaseEmpty:
				return ctdf.PlaceQuery{}, errors.New("No locations found")
			case locationinput.PhaseFailed:
				log.Debug().Str("text", text).Msg("Location search failed")
				return ctdf.PlaceQuery{}, errors.New(state.Error)
			}
		}
	}
}
