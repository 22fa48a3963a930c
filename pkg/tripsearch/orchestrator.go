package tripsearch

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/geolocation"
	"github.com/smartbus/routeplanner/pkg/mapview"
)

var ErrSuperseded = errors.New("search superseded by a newer one")

type Option func(*Orchestrator)

func WithDefaultCenter(center ctdf.Coordinate) Option {
	return func(o *Orchestrator) {
		o.defaultCenter = center
	}
}

func WithOptimisation(optimisation ctdf.OptimisationType) Option {
	return func(o *Orchestrator) {
		o.session.Optimisation = optimisation
	}
}

// Orchestrator owns the origin and destination of a trip search and the
// results of the latest route request
type Orchestrator struct {
	planner       RoutePlanner
	defaultCenter ctdf.Coordinate

	mutex        sync.Mutex
	session      Session
	cancelSearch context.CancelFunc

	onChange []func(Session)
}

func New(planner RoutePlanner, options ...Option) *Orchestrator {
	orchestrator := &Orchestrator{
		planner: planner,
		session: Session{
			Optimisation: ctdf.OptimisationTypeFastest,
		},
	}

	for _, option := range options {
		option(orchestrator)
	}

	return orchestrator
}

func (o *Orchestrator) OnChange(f func(Session)) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.onChange = append(o.onChange, f)
}

func (o *Orchestrator) Session() Session {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return o.snapshotLocked()
}

func (o *Orchestrator) SetOrigin(place ctdf.PlaceQuery) {
	o.update(func(session *Session) {
		session.Origin = place
		if place.Resolved() {
			session.Result = nil
		}
	})
}

func (o *Orchestrator) SetDestination(place ctdf.PlaceQuery) {
	o.update(func(session *Session) {
		session.Destination = place
		if place.Resolved() {
			session.Result = nil
		}
	})
}

// SetOptimisation changes the preference, a running search for the old one is
// superseded
func (o *Orchestrator) SetOptimisation(optimisation ctdf.OptimisationType) {
	o.update(func(session *Session) {
		session.Optimisation = optimisation
	})
}

// Search requests a route for the current origin and destination. A search
// started while another is running cancels the older one, whose result is
// then dropped with ErrSuperseded.
func (o *Orchestrator) Search(ctx context.Context) (*ctdf.RouteResult, error) {
	o.mutex.Lock()

	if !o.session.CanSearch() {
		validationError := &ValidationError{}
		if !o.session.Origin.Resolved() {
			validationError.Missing = append(validationError.Missing, "origin")
		}
		if !o.session.Destination.Resolved() {
			validationError.Missing = append(validationError.Missing, "destination")
		}

		o.session.Error = validationError.Error()
		snapshot := o.snapshotLocked()
		o.mutex.Unlock()

		o.notify(snapshot)
		return nil, validationError
	}

	o.supersedeLocked()
	sequence := o.session.Sequence

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.cancelSearch = cancel

	o.session.Loading = true
	o.session.Error = ""
	o.session.Result = nil
	o.session.SearchID = uuid.NewString()

	request := PlanRequest{
		Origin:       *o.session.Origin.Coordinate,
		Destination:  *o.session.Destination.Coordinate,
		Optimisation: o.session.Optimisation,
	}
	searchID := o.session.SearchID

	snapshot := o.snapshotLocked()
	o.mutex.Unlock()
	o.notify(snapshot)

	log.Debug().Str("search", searchID).Str("origin", request.Origin.String()).Str("destination", request.Destination.String()).Msg("Searching for route")

	result, err := o.planner.Plan(searchCtx, request)

	o.mutex.Lock()
	if sequence != o.session.Sequence {
		o.mutex.Unlock()
		log.Debug().Str("search", searchID).Msg("Discarding superseded route search")
		return nil, ErrSuperseded
	}

	o.cancelSearch = nil
	o.session.Loading = false
	if err != nil {
		o.session.Error = FailureMessage(err)
		result = nil
	} else {
		o.session.Result = result
	}

	snapshot = o.snapshotLocked()
	o.mutex.Unlock()
	o.notify(snapshot)

	if err != nil {
		return nil, err
	}

	return snapshot.Result, nil
}

// LocateMe asks the locator once for the user's position
func (o *Orchestrator) LocateMe(ctx context.Context, locator geolocation.Locator) (ctdf.Coordinate, error) {
	position, err := locator.CurrentPosition(ctx)

	var geolocationError *geolocation.Error
	if err != nil && !errors.As(err, &geolocationError) {
		err = &geolocation.Error{Reason: geolocation.ReasonUnavailable, Err: err}
	}

	o.mutex.Lock()
	if err != nil {
		o.session.Error = geolocation.Message
	} else {
		o.session.UserLocation = &position
		if o.session.Error == geolocation.Message {
			o.session.Error = ""
		}
	}
	snapshot := o.snapshotLocked()
	o.mutex.Unlock()

	o.notify(snapshot)

	return position, err
}

// MapInput is the map for the current session. The origin falls back to the
// last result, then the user, then the default centre.
func (o *Orchestrator) MapInput() mapview.Input {
	session := o.Session()

	input := mapview.Input{
		UserLocation:  session.UserLocation,
		DefaultCenter: o.defaultCenter,
	}

	switch {
	case session.Origin.Resolved():
		input.Origin = session.Origin.Coordinate
	case session.Result != nil:
		input.Origin = &session.Result.Origin
	case session.UserLocation != nil:
		input.Origin = session.UserLocation
	default:
		center := o.defaultCenter
		input.Origin = &center
	}

	switch {
	case session.Destination.Resolved():
		input.Destination = session.Destination.Coordinate
	case session.Result != nil:
		input.Destination = &session.Result.Destination
	}

	return input
}

// Close cancels any running search
func (o *Orchestrator) Close() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.supersedeLocked()
	o.session.Loading = false
}

func (o *Orchestrator) update(f func(session *Session)) {
	o.mutex.Lock()
	o.supersedeLocked()
	o.session.Loading = false
	o.session.Error = ""
	f(&o.session)
	snapshot := o.snapshotLocked()
	o.mutex.Unlock()

	o.notify(snapshot)
}

func (o *Orchestrator) supersedeLocked() {
	o.session.Sequence++

	if o.cancelSearch != nil {
		o.cancelSearch()
		o.cancelSearch = nil
	}
}

func (o *Orchestrator) snapshotLocked() Session {
	var snapshot Session
	if err := copier.CopyWithOption(&snapshot, &o.session, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("Failed to copy session state")
		return o.session
	}

	return snapshot
}

func (o *Orchestrator) notify(snapshot Session) {
	o.mutex.Lock()
	observers := append([]func(Session){}, o.onChange...)
	o.mutex.Unlock()

	for _, f := range observers {
		f(snapshot)
	}
}

// FailureMessage is the text shown in place of results when a search fails
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "The selected origin or destination can't be used for a route search."
	case errors.Is(err, ErrNoRouteFound):
		return "No bus route was found between these locations."
	case errors.Is(err, ErrServiceUnavailable):
		return "Route planning is unavailable right now. Please try again later."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Route search was cancelled."
	default:
		return "Failed to find a route. Please try again."
	}
}
