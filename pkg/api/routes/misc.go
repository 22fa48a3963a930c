package routes

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
)

func getBoundsQuery(c *fiber.Ctx) (*query.StopsInBounds, error) {
	bounds := c.Query("bounds")

	if bounds == "" {
		return nil, errors.New("A filter must be applied to the request")
	}

	boundsSplit := strings.Split(bounds, ",")
	if len(boundsSplit) != 4 {
		return nil, errors.New("Bounds must contain 4 co-ordinates")
	}

	var values [4]float64
	for i, value := range boundsSplit {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.New("Bounds must be numeric")
		}
		values[i] = parsed
	}

	boundsQuery := &query.StopsInBounds{
		SouthWest: ctdf.Coordinate{Longitude: values[0], Latitude: values[1]},
		NorthEast: ctdf.Coordinate{Longitude: values[2], Latitude: values[3]},
	}
	if !boundsQuery.SouthWest.Valid() || !boundsQuery.NorthEast.Valid() {
		return nil, errors.New("Bounds are out of range")
	}

	return boundsQuery, nil
}

// getCoordinateQuery reads an optional lat,lon query parameter
func getCoordinateQuery(c *fiber.Ctx, name string) (*ctdf.Coordinate, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	coordinate, err := ctdf.ParseCoordinate(value)
	if err != nil {
		return nil, errors.New("Parameter " + name + " should be a lat,lon pair")
	}

	return &coordinate, nil
}

func sendError(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	return c.JSON(fiber.Map{
		"error": message,
	})
}
