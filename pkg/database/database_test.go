package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("SMARTBUS_MONGODB_CONNECTION", "")
	t.Setenv("SMARTBUS_MONGODB_DATABASE", "")

	config := ConfigFromEnvironment()
	assert.Equal(t, defaultMongoConnectionString, config.ConnectionString)
	assert.Equal(t, "smartbus", config.Database)

	t.Setenv("SMARTBUS_MONGODB_CONNECTION", "mongodb://db.internal:27017/")
	t.Setenv("SMARTBUS_MONGODB_DATABASE", "planner")

	config = ConfigFromEnvironment()
	assert.Equal(t, "mongodb://db.internal:27017/", config.ConnectionString)
	assert.Equal(t, "planner", config.Database)
}

func TestConnectFailureLeavesDegradedState(t *testing.T) {
	t.Setenv("SMARTBUS_MONGODB_CONNECTION", "not-a-mongo-uri")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Connect(ctx, ConnectOptions{})
	require.Error(t, err)

	var connectionError *ConnectionError
	require.True(t, errors.As(err, &connectionError))
	assert.Equal(t, "not-a-mongo-uri", connectionError.ConnectionString)

	assert.False(t, Connected())
	assert.Equal(t, "disconnected", Status())
	assert.NoError(t, Disconnect(context.Background()))
}

func TestConnectStopsRetryingWhenCancelled(t *testing.T) {
	t.Setenv("SMARTBUS_MONGODB_CONNECTION", "not-a-mongo-uri")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Connect(ctx, ConnectOptions{RetryFor: time.Minute})

	var connectionError *ConnectionError
	assert.True(t, errors.As(err, &connectionError))
	assert.False(t, Connected())
}
