package tripsearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartbus/routeplanner/pkg/ctdf"
)

var (
	ErrServiceUnavailable = errors.New("route planning service unavailable")
	ErrNoRouteFound       = errors.New("no route found")
	ErrInvalidInput       = errors.New("invalid route request")
)

type PlanRequest struct {
	Origin       ctdf.Coordinate
	Destination  ctdf.Coordinate
	Optimisation ctdf.OptimisationType
}

func (p PlanRequest) Validate() error {
	if !p.Origin.Valid() || !p.Destination.Valid() {
		return &PlanError{Reason: ErrInvalidInput, Err: errors.New("origin and destination must be valid coordinates")}
	}

	if _, err := ctdf.ParseOptimisationType(string(p.Optimisation)); err != nil {
		return &PlanError{Reason: ErrInvalidInput, Err: err}
	}

	return nil
}

// RoutePlanner turns an origin and destination into route options
type RoutePlanner interface {
	Plan(ctx context.Context, request PlanRequest) (*ctdf.RouteResult, error)
}

// PlanError carries one of ErrServiceUnavailable, ErrNoRouteFound or ErrInvalidInput
// as its Reason
type PlanError struct {
	Reason     error
	StatusCode int
	Err        error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Err)
	}

	return e.Reason.Error()
}

func (e *PlanError) Unwrap() []error {
	errs := []error{e.Reason}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}
