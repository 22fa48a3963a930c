package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/smartbus/routeplanner/pkg/geocoding"
)

type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocoding.Candidate, error)
}

func GeocodeRouter(router fiber.Router, geocoder Geocoder) {
	router.Get("/", func(c *fiber.Ctx) error {
		return searchLocations(c, geocoder)
	})
}

func searchLocations(c *fiber.Ctx, geocoder Geocoder) error {
	candidates, err := geocoder.Search(c.UserContext(), c.Query("q"))

	var lookupError *geocoding.LookupError
	if errors.As(err, &lookupError) {
		return sendError(c, fiber.StatusBadGateway, geocoding.LookupMessage)
	} else if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if candidates == nil {
		candidates = []geocoding.Candidate{}
	}

	return c.JSON(candidates)
}
