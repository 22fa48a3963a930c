package ctdf

// Location is a GeoJSON point as stored in MongoDB, coordinates are [lon, lat]
type Location struct {
	Type        string    `json:"-" groups:"basic"`
	Coordinates []float64 `json:"coordinates" groups:"basic"`
}

func NewLocation(coordinate Coordinate) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{coordinate.Longitude, coordinate.Latitude},
	}
}

func (l *Location) Coordinate() (Coordinate, bool) {
	if l == nil || len(l.Coordinates) != 2 {
		return Coordinate{}, false
	}

	return Coordinate{Latitude: l.Coordinates[1], Longitude: l.Coordinates[0]}, true
}
