package dataaggregator

import (
	"errors"
	"reflect"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source"
)

var ErrNoMatchingSource = errors.New("Failed to find a matching Data Source for type")

type Aggregator struct {
	Sources []DataSource
}

var GlobalAggregator Aggregator

func (a *Aggregator) RegisterSource(source DataSource) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("name", source.GetName()).Msg("Registering new Data Source")
}

// Lookup asks each registered source that supports T in turn, sources that
// don't understand the query are skipped
func Lookup[T any](query any) (T, error) {
	return LookupFrom[T](&GlobalAggregator, query)
}

func LookupFrom[T any](aggregator *Aggregator, query any) (T, error) {
	var empty T

	lookupType := reflect.TypeOf(*new(T))
	if lookupType.Kind() == reflect.Pointer {
		lookupType = lookupType.Elem()
	}

	for _, dataSource := range aggregator.Sources {
		matches := false

		for _, supportedType := range dataSource.Supports() {
			if lookupType == supportedType {
				matches = true
				break
			}
		}

		if !matches {
			continue
		}

		returnValue, returnError := dataSource.Lookup(query)

		if errors.Is(returnError, source.UnsupportedSourceError) {
			continue
		}

		if returnValue == nil {
			return empty, returnError
		}

		typedValue, ok := returnValue.(T)
		if !ok {
			return empty, errors.New("Data Source returned an unexpected type")
		}

		return typedValue, returnError
	}

	return empty, ErrNoMatchingSource
}
