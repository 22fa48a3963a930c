package geolocation

import (
	"context"
	"fmt"

	"github.com/smartbus/routeplanner/pkg/ctdf"
)

// Message is what the user sees when a position can't be found
const Message = "Unable to get your location. Please check your permissions."

type Reason string

const (
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonUnavailable      Reason = "unavailable"
)

type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("geolocation %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Locator gives a single position fix, there is no continuous tracking
type Locator interface {
	CurrentPosition(ctx context.Context) (ctdf.Coordinate, error)
}

// Fixed always reports the same position
type Fixed struct {
	Position ctdf.Coordinate
}

func (f Fixed) CurrentPosition(ctx context.Context) (ctdf.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return ctdf.Coordinate{}, &Error{Reason: ReasonUnavailable, Err: err}
	}
	if !f.Position.Valid() {
		return ctdf.Coordinate{}, &Error{Reason: ReasonUnavailable}
	}

	return f.Position, nil
}

// Unavailable is used when the platform has no way of locating the user
type Unavailable struct {
	Reason Reason
}

func (u Unavailable) CurrentPosition(ctx context.Context) (ctdf.Coordinate, error) {
	reason := u.Reason
	if reason == "" {
		reason = ReasonUnavailable
	}

	return ctdf.Coordinate{}, &Error{Reason: reason}
}
