package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/mapview"
)

func MapViewRouter(router fiber.Router, defaultCenter ctdf.Coordinate, tiles mapview.TileLayer) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getMapView(c, defaultCenter, tiles)
	})
}

func getMapView(c *fiber.Ctx, defaultCenter ctdf.Coordinate, tiles mapview.TileLayer) error {
	input := mapview.Input{
		DefaultCenter: defaultCenter,
		Tiles:         tiles,
	}

	var err error
	for name, target := range map[string]**ctdf.Coordinate{
		"origin":      &input.Origin,
		"destination": &input.Destination,
		"user":        &input.UserLocation,
	} {
		if *target, err = getCoordinateQuery(c, name); err != nil {
			return sendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	view := mapview.Render(input)

	// Stops are only drawn once the map knows where it is
	if view.Bounds != nil {
		stops, err := dataaggregator.Lookup[[]*ctdf.Stop](query.StopsInBounds{
			SouthWest: view.Bounds.SouthWest,
			NorthEast: view.Bounds.NorthEast,
		})
		if err != nil && !errors.Is(err, dataaggregator.ErrNoMatchingSource) {
			log.Warn().Err(err).Msg("Failed to load stops for map")
		}

		if len(stops) > 0 {
			input.BusStops = stops
			view = mapview.Render(input)
		}
	}

	return c.JSON(view)
}
