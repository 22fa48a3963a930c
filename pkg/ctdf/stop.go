package ctdf

import "time"

type Stop struct {
	PrimaryIdentifier string            `groups:"basic"`
	OtherIdentifiers  map[string]string `groups:"detailed"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`

	DataSource *DataSource `groups:"internal"`

	PrimaryName string    `groups:"basic"`
	Location    *Location `groups:"basic"`
}

// LiveBusPosition is a vehicle position handed to the map by a caller. Nothing
// here tracks vehicles.
type LiveBusPosition struct {
	ID       string
	Route    string
	Position Coordinate
}
