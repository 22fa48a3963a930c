package tripsearch

import (
	"github.com/smartbus/routeplanner/pkg/ctdf"
)

const ValidationMessage = "Please select both origin and destination from the dropdown"

type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return ValidationMessage
}

// Session is a snapshot of one trip search screen
type Session struct {
	Origin      ctdf.PlaceQuery
	Destination ctdf.PlaceQuery

	Optimisation ctdf.OptimisationType
	UserLocation *ctdf.Coordinate

	Loading bool
	Error   string
	Result  *ctdf.RouteResult

	// SearchID identifies the latest search, Sequence only ever increases
	SearchID string
	Sequence uint64
}

func (s Session) CanSearch() bool {
	return s.Origin.Resolved() && s.Destination.Resolved()
}
