package consumer

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smartbus/routeplanner/pkg/redis_client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingConsumer struct {
	mutex    sync.Mutex
	payloads []string
}

func (c *collectingConsumer) Consume(batch rmq.Deliveries) {
	c.mutex.Lock()
	c.payloads = append(c.payloads, batch.Payloads()...)
	c.mutex.Unlock()

	batch.Ack()
}

func (c *collectingConsumer) count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.payloads)
}

func TestRedisConsumer(t *testing.T) {
	server := miniredis.RunT(t)
	require.NoError(t, redis_client.Use(redis.NewClient(&redis.Options{Addr: server.Addr()})))
	t.Cleanup(func() {
		<-redis_client.QueueConnection.StopAllConsuming()
		redis_client.Reset()
	})

	collector := &collectingConsumer{}
	redisConsumer := RedisConsumer{
		QueueName:       "consumer-test",
		NumberConsumers: 2,
		BatchSize:       5,
		Timeout:         50 * time.Millisecond,
		Consumer:        collector,
	}
	require.NoError(t, redisConsumer.Setup())

	queue, err := redis_client.QueueConnection.OpenQueue("consumer-test")
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		require.NoError(t, queue.Publish("event"))
	}

	require.Eventually(t, func() bool {
		return collector.count() == 7
	}, 5*time.Second, 20*time.Millisecond)
}

func TestHealthHandlerWithoutConnections(t *testing.T) {
	redis_client.Reset()

	recorder := httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "redis disconnected", recorder.Body.String())
}
