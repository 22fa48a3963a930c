package routes

import (
	"errors"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/database"
)

type EventPublisher interface {
	Publish(event *ctdf.TripSearchEvent) error
}

// routeOptionEnvironment is what a filter expression can see of each option
type routeOptionEnvironment struct {
	ID              int
	Type            string
	DurationMinutes float64
	Fare            float64
	Currency        string
	WalkingMetres   int
}

func newRouteOptionEnvironment(option ctdf.RouteOption) routeOptionEnvironment {
	return routeOptionEnvironment{
		ID:              option.ID,
		Type:            string(option.Type),
		DurationMinutes: option.Duration.Minutes(),
		Fare:            option.Fare.Amount,
		Currency:        option.Fare.Currency,
		WalkingMetres:   int(option.WalkingDistance),
	}
}

func PlannerRouter(router fiber.Router, publisher EventPublisher) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getRoutePlan(c, publisher)
	})
}

func getRoutePlan(c *fiber.Ctx, publisher EventPublisher) error {
	origin, err := getCoordinateQuery(c, "origin")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	destination, err := getCoordinateQuery(c, "destination")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if origin == nil || destination == nil {
		return sendError(c, fiber.StatusBadRequest, "Parameters origin and destination are required")
	}

	optimisation, err := ctdf.ParseOptimisationType(c.Query("optimisation", string(ctdf.OptimisationTypeFastest)))
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	var filter *vm.Program
	if filterExpression := c.Query("filter"); filterExpression != "" {
		filter, err = expr.Compile(filterExpression, expr.Env(routeOptionEnvironment{}), expr.AsBool())
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "Parameter filter is not a valid expression")
		}
	}

	event := &ctdf.TripSearchEvent{
		Identifier:   uuid.NewString(),
		Timestamp:    time.Now(),
		Origin:       *origin,
		Destination:  *destination,
		Optimisation: optimisation,
	}
	defer publishEvent(publisher, event)

	routeResult, err := dataaggregator.Lookup[*ctdf.RouteResult](query.RoutePlan{
		Origin:       *origin,
		Destination:  *destination,
		Optimisation: optimisation,
	})

	switch {
	case errors.Is(err, query.ErrInvalidRoutePlan):
		event.FailReason = "invalid_input"
		return sendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, dataaggregator.ErrNoMatchingSource), errors.Is(err, database.ErrDisconnected):
		event.FailReason = "unavailable"
		return sendError(c, fiber.StatusServiceUnavailable, "Route planning is unavailable")
	case err != nil:
		event.FailReason = "unavailable"
		log.Error().Err(err).Msg("Route plan lookup failed")
		return sendError(c, fiber.StatusServiceUnavailable, "Route planning is unavailable")
	case routeResult == nil:
		event.FailReason = "no_route"
		return sendError(c, fiber.StatusNotFound, "No route found")
	}

	if filter != nil {
		routeResult.RouteOptions, err = filterRouteOptions(filter, routeResult.RouteOptions)
		if err != nil {
			event.FailReason = "invalid_input"
			return sendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	event.Success = true

	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	routeResultReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, routeResult)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sherrif could not reduce RouteResult")
	}

	return c.JSON(routeResultReduced)
}

func filterRouteOptions(filter *vm.Program, options []ctdf.RouteOption) ([]ctdf.RouteOption, error) {
	filtered := []ctdf.RouteOption{}

	for _, option := range options {
		output, err := expr.Run(filter, newRouteOptionEnvironment(option))
		if err != nil {
			return nil, err
		}

		if matches, ok := output.(bool); ok && matches {
			filtered = append(filtered, option)
		}
	}

	return filtered, nil
}

func publishEvent(publisher EventPublisher, event *ctdf.TripSearchEvent) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(event); err != nil {
		log.Error().Err(err).Str("event", event.Identifier).Msg("Failed to publish trip search event")
	}
}
