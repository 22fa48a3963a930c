package cachedresults

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source"
)

const Expiration = 90 * time.Minute

type Cache struct {
	Cache *cache.Cache[string]
}

func (c *Cache) Setup(client *redis.Client) {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(Expiration))

	c.Cache = cache.New[string](redisStore)
}

// Source answers route plans from Redis and fills it from the wrapped source on a miss
type Source struct {
	Cache  *Cache
	Source dataaggregator.DataSource
}

func (s Source) GetName() string {
	return "Cached " + s.Source.GetName()
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.RouteResult{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	routePlan, ok := q.(query.RoutePlan)
	if !ok {
		return nil, source.UnsupportedSourceError
	}

	ctx := context.Background()
	key := routePlan.CacheKey()

	if cached, err := s.Cache.Cache.Get(ctx, key); err == nil {
		var routeResult *ctdf.RouteResult
		if err := json.Unmarshal([]byte(cached), &routeResult); err == nil && routeResult != nil {
			// Cache key is rounded so hand back the coordinates that were asked for
			routeResult.Origin = routePlan.Origin
			routeResult.Destination = routePlan.Destination

			return routeResult, nil
		}
	} else if !errors.Is(err, store.NotFound{}) {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read route plan cache")
	}

	value, err := s.Source.Lookup(q)
	if err != nil {
		return value, err
	}

	routeResult, ok := value.(*ctdf.RouteResult)
	if !ok || routeResult == nil {
		return value, err
	}

	encoded, err := json.Marshal(routeResult)
	if err != nil {
		return routeResult, nil
	}

	if err := s.Cache.Cache.Set(ctx, key, string(encoded)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to store route plan")
	}

	return routeResult, nil
}
