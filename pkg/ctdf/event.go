package ctdf

import "time"

// TripSearchEvent is published for every planner request the API serves
type TripSearchEvent struct {
	Identifier string
	Timestamp  time.Time

	Origin       Coordinate
	Destination  Coordinate
	Optimisation OptimisationType

	Success    bool
	FailReason string
}
