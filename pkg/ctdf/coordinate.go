package ctdf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Coordinate struct {
	Latitude  float64 `json:"lat" groups:"basic"`
	Longitude float64 `json:"lng" groups:"basic"`
}

// Valid reports whether both components are finite numbers inside the WGS84 range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}

	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s,%s", strconv.FormatFloat(c.Latitude, 'f', -1, 64), strconv.FormatFloat(c.Longitude, 'f', -1, 64))
}

func Midpoint(a Coordinate, b Coordinate) Coordinate {
	return Coordinate{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// ParseCoordinate reads a "lat,lon" pair
func ParseCoordinate(value string) (Coordinate, error) {
	split := strings.Split(value, ",")
	if len(split) != 2 {
		return Coordinate{}, errors.New("Coordinate must be in the form lat,lon")
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(split[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude: %w", err)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(split[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude: %w", err)
	}

	coordinate := Coordinate{Latitude: latitude, Longitude: longitude}
	if !coordinate.Valid() {
		return Coordinate{}, errors.New("Coordinate is out of range")
	}

	return coordinate, nil
}
