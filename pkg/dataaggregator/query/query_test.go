package query

import (
	"testing"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRoutePlanCacheKey(t *testing.T) {
	a := RoutePlan{
		Origin:       ctdf.Coordinate{Latitude: 24.45391, Longitude: 54.37731},
		Destination:  ctdf.Coordinate{Latitude: 24.4810, Longitude: 54.3581},
		Optimisation: ctdf.OptimisationTypeFastest,
	}
	b := a
	b.Origin = ctdf.Coordinate{Latitude: 24.45389, Longitude: 54.37729}

	assert.Equal(t, "routeplan/24.4539,54.3773/24.4810,54.3581/fastest", a.CacheKey())
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	b.Optimisation = ctdf.OptimisationTypeCheapest
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())
}

func TestRoutePlanValidate(t *testing.T) {
	plan := RoutePlan{
		Origin:       ctdf.Coordinate{Latitude: 24.4539, Longitude: 54.3773},
		Destination:  ctdf.Coordinate{Latitude: 24.4810, Longitude: 54.3581},
		Optimisation: ctdf.OptimisationTypeGreenest,
	}
	assert.NoError(t, plan.Validate())

	plan.Optimisation = "scenic"
	assert.ErrorIs(t, plan.Validate(), ErrInvalidRoutePlan)

	plan.Optimisation = ctdf.OptimisationTypeFastest
	plan.Destination.Latitude = 91
	assert.ErrorIs(t, plan.Validate(), ErrInvalidRoutePlan)
}

func TestStopQueries(t *testing.T) {
	empty := Stop{}
	assert.Nil(t, empty.ToBson())

	stop := Stop{PrimaryIdentifier: "gtfs-stop-1"}
	assert.Equal(t, bson.M{"primaryidentifier": "gtfs-stop-1"}, stop.ToBson())

	bounds := StopsInBounds{
		SouthWest: ctdf.Coordinate{Latitude: 24.4, Longitude: 54.3},
		NorthEast: ctdf.Coordinate{Latitude: 24.5, Longitude: 54.4},
	}
	box := bounds.ToBson()["location.coordinates"].(bson.M)["$geoWithin"].(bson.M)["$box"].(bson.A)
	assert.Equal(t, bson.A{54.3, 24.4}, box[0])
	assert.Equal(t, bson.A{54.4, 24.5}, box[1])
}
