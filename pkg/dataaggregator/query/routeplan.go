package query

import (
	"errors"
	"fmt"

	"github.com/smartbus/routeplanner/pkg/ctdf"
)

var ErrInvalidRoutePlan = errors.New("invalid route plan")

type RoutePlan struct {
	Origin       ctdf.Coordinate
	Destination  ctdf.Coordinate
	Optimisation ctdf.OptimisationType
}

func (r RoutePlan) Validate() error {
	if !r.Origin.Valid() {
		return fmt.Errorf("%w: origin %s is not a valid coordinate", ErrInvalidRoutePlan, r.Origin)
	}
	if !r.Destination.Valid() {
		return fmt.Errorf("%w: destination %s is not a valid coordinate", ErrInvalidRoutePlan, r.Destination)
	}
	if _, err := ctdf.ParseOptimisationType(string(r.Optimisation)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoutePlan, err)
	}

	return nil
}

// CacheKey rounds coordinates to roughly 10 metres so nearby searches share results
func (r RoutePlan) CacheKey() string {
	return fmt.Sprintf(
		"routeplan/%.4f,%.4f/%.4f,%.4f/%s",
		r.Origin.Latitude, r.Origin.Longitude,
		r.Destination.Latitude, r.Destination.Longitude,
		r.Optimisation,
	)
}
