package mockplanner

import (
	"reflect"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source"
)

type Source struct {
	Payload *Payload
}

func (s Source) GetName() string {
	return "Mock Route Planner"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.RouteResult{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case query.RoutePlan:
		if err := q.Validate(); err != nil {
			return nil, err
		}

		payload := s.Payload
		if payload == nil {
			payload = DefaultPayload()
		}

		return payload.RouteResult(q.Origin, q.Destination), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}
