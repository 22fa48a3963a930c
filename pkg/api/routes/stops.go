package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source/databaselookup"
	"github.com/smartbus/routeplanner/pkg/database"
)

func StopsRouter(router fiber.Router) {
	router.Get("/", listStops)
	router.Get("/:identifier", getStop)
}

func listStops(c *fiber.Ctx) error {
	boundsQuery, err := getBoundsQuery(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	stops, err := dataaggregator.Lookup[[]*ctdf.Stop](*boundsQuery)
	if errors.Is(err, database.ErrDisconnected) {
		return sendError(c, fiber.StatusServiceUnavailable, "Stops are unavailable")
	} else if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	stopsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, stops)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sherrif could not reduce Stops")
	}

	return c.JSON(stopsReduced)
}

func getStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stop, err := dataaggregator.Lookup[*ctdf.Stop](query.Stop{
		PrimaryIdentifier: identifier,
	})
	switch {
	case errors.Is(err, database.ErrDisconnected):
		return sendError(c, fiber.StatusServiceUnavailable, "Stops are unavailable")
	case errors.Is(err, databaselookup.ErrStopNotFound), err == nil && stop == nil:
		return sendError(c, fiber.StatusNotFound, "Could not find Stop matching Stop Identifier")
	case err != nil:
		log.Error().Err(err).Str("stop", identifier).Msg("Stop lookup failed")
		return sendError(c, fiber.StatusInternalServerError, "Failed to look up Stop")
	}

	stopReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, stop)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sherrif could not reduce Stop")
	}

	return c.JSON(stopReduced)
}
