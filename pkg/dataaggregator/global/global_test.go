package global

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/smartbus/routeplanner/pkg/redis_client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routePlan = query.RoutePlan{
	Origin:       ctdf.Coordinate{Latitude: 24.4539, Longitude: 54.3773},
	Destination:  ctdf.Coordinate{Latitude: 24.4810, Longitude: 54.3581},
	Optimisation: ctdf.OptimisationTypeFastest,
}

func TestSetupWithoutRedis(t *testing.T) {
	redis_client.Reset()
	t.Setenv("SMARTBUS_MOCK_ROUTES", "")

	require.NoError(t, Setup())
	require.Len(t, dataaggregator.GlobalAggregator.Sources, 2)
	assert.Equal(t, "Mock Route Planner", dataaggregator.GlobalAggregator.Sources[0].GetName())

	result, err := dataaggregator.Lookup[*ctdf.RouteResult](routePlan)
	require.NoError(t, err)
	assert.Len(t, result.RouteOptions, 3)

	// No database in tests
	_, err = dataaggregator.Lookup[[]*ctdf.Stop](query.StopsInBounds{})
	assert.ErrorIs(t, err, database.ErrDisconnected)

	_, err = dataaggregator.Lookup[*ctdf.TripSearchEvent](routePlan)
	assert.ErrorIs(t, err, dataaggregator.ErrNoMatchingSource)
}

func TestSetupWithRedisCache(t *testing.T) {
	server := miniredis.RunT(t)
	require.NoError(t, redis_client.Use(redis.NewClient(&redis.Options{Addr: server.Addr()})))
	t.Cleanup(redis_client.Reset)

	require.NoError(t, Setup())
	assert.Equal(t, "Cached Mock Route Planner", dataaggregator.GlobalAggregator.Sources[0].GetName())

	_, err := dataaggregator.Lookup[*ctdf.RouteResult](routePlan)
	require.NoError(t, err)
	assert.True(t, server.Exists(routePlan.CacheKey()))
}

func TestSetupWithRouteFixture(t *testing.T) {
	redis_client.Reset()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("duration: PT20M\noptions: []\n"), 0o600))
	t.Setenv("SMARTBUS_MOCK_ROUTES", path)

	require.NoError(t, Setup())

	result, err := dataaggregator.Lookup[*ctdf.RouteResult](routePlan)
	require.NoError(t, err)
	assert.Empty(t, result.RouteOptions)

	t.Setenv("SMARTBUS_MOCK_ROUTES", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, Setup())
}
