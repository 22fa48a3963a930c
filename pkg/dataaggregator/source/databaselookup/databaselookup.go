package databaselookup

import (
	"reflect"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source"
)

type Source struct {
}

func (s Source) GetName() string {
	return "Database Lookup"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.Stop{}),
		reflect.TypeOf([]*ctdf.Stop{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Stop:
		return s.StopQuery(q)
	case query.StopsInBounds:
		return s.StopsInBoundsQuery(q)
	}

	return nil, source.UnsupportedSourceError
}
