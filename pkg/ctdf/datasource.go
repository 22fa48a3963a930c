package ctdf

import "time"

type DataSource struct {
	OriginalFormat string    `groups:"internal"` // eg. GTFS
	Provider       string    `groups:"internal"`
	Dataset        string    `groups:"internal"`
	Identifier     string    `groups:"internal"`
	Timestamp      time.Time `groups:"internal"`
}
