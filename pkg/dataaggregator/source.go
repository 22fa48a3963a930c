package dataaggregator

import (
	"reflect"
)

// DataSource answers lookups for the types it lists in Supports. Lookup
// returns source.UnsupportedSourceError for query types it doesn't handle so
// the next source gets a go.
type DataSource interface {
	GetName() string
	Supports() []reflect.Type
	Lookup(query any) (any, error)
}
