package mapview

import (
	"fmt"
	"math"

	"github.com/smartbus/routeplanner/pkg/ctdf"
)

const (
	DefaultZoom   = 13
	BoundsPadding = 50
)

type MarkerKind string

const (
	MarkerKindUser        MarkerKind = "user"
	MarkerKindOrigin      MarkerKind = "origin"
	MarkerKindDestination MarkerKind = "destination"
	MarkerKindStop        MarkerKind = "stop"
	MarkerKindBus         MarkerKind = "bus"
)

type Input struct {
	Origin        *ctdf.Coordinate
	Destination   *ctdf.Coordinate
	UserLocation  *ctdf.Coordinate
	DefaultCenter ctdf.Coordinate

	BusStops  []*ctdf.Stop
	LiveBuses []ctdf.LiveBusPosition

	Tiles TileLayer
}

type Marker struct {
	Key      string          `json:"key"`
	Kind     MarkerKind      `json:"kind"`
	Position ctdf.Coordinate `json:"position"`
	Popup    string          `json:"popup,omitempty"`
}

// Bounds is the box the map is fitted to, south west and north east corners
type Bounds struct {
	SouthWest ctdf.Coordinate `json:"southWest"`
	NorthEast ctdf.Coordinate `json:"northEast"`
	Padding   int             `json:"padding"`
}

type View struct {
	Loading bool `json:"loading"`

	Center ctdf.Coordinate `json:"center"`
	Zoom   int             `json:"zoom"`
	Bounds *Bounds         `json:"bounds,omitempty"`

	// Line is a straight placeholder between origin and destination, not a road path
	Line    []ctdf.Coordinate `json:"line,omitempty"`
	Markers []Marker          `json:"markers"`

	Tiles TileLayer `json:"tiles"`
}

// Render builds the map model for the given input. It has no side effects.
func Render(input Input) View {
	view := View{
		Zoom:    DefaultZoom,
		Markers: []Marker{},
		Tiles:   input.Tiles,
	}

	if !usable(input.Origin) {
		view.Loading = true
		view.Center = input.DefaultCenter
		return view
	}

	origin := *input.Origin
	hasDestination := usable(input.Destination)

	switch {
	case hasDestination:
		view.Center = ctdf.Midpoint(origin, *input.Destination)
	default:
		view.Center = origin
	}

	if usable(input.UserLocation) {
		view.Markers = append(view.Markers, Marker{
			Key:      "user",
			Kind:     MarkerKindUser,
			Position: *input.UserLocation,
			Popup:    "Your location",
		})
	}

	view.Markers = append(view.Markers, Marker{
		Key:      "origin",
		Kind:     MarkerKindOrigin,
		Position: origin,
		Popup:    "Origin",
	})

	if hasDestination {
		destination := *input.Destination

		view.Markers = append(view.Markers, Marker{
			Key:      "destination",
			Kind:     MarkerKindDestination,
			Position: destination,
			Popup:    "Destination",
		})

		view.Line = []ctdf.Coordinate{origin, destination}
		view.Bounds = &Bounds{
			SouthWest: ctdf.Coordinate{
				Latitude:  math.Min(origin.Latitude, destination.Latitude),
				Longitude: math.Min(origin.Longitude, destination.Longitude),
			},
			NorthEast: ctdf.Coordinate{
				Latitude:  math.Max(origin.Latitude, destination.Latitude),
				Longitude: math.Max(origin.Longitude, destination.Longitude),
			},
			Padding: BoundsPadding,
		}
	}

	for index, stop := range input.BusStops {
		if stop == nil {
			continue
		}
		position, ok := stop.Location.Coordinate()
		if !ok || !position.Valid() {
			continue
		}

		view.Markers = append(view.Markers, Marker{
			Key:      fmt.Sprintf("stop-%d", index),
			Kind:     MarkerKindStop,
			Position: position,
			Popup:    stop.PrimaryName,
		})
	}

	for index, bus := range input.LiveBuses {
		if !bus.Position.Valid() {
			continue
		}

		view.Markers = append(view.Markers, Marker{
			Key:      fmt.Sprintf("bus-%d", index),
			Kind:     MarkerKindBus,
			Position: bus.Position,
			Popup:    fmt.Sprintf("Bus %s", bus.Route),
		})
	}

	return view
}

func usable(coordinate *ctdf.Coordinate) bool {
	return coordinate != nil && coordinate.Valid()
}
