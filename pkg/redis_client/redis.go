package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/smartbus/routeplanner/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueConnectionTag = "smartbus"

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["SMARTBUS_REDIS_ADDRESS"] != "" {
		address = env["SMARTBUS_REDIS_ADDRESS"]
	}

	if env["SMARTBUS_REDIS_PASSWORD"] != "" {
		password = env["SMARTBUS_REDIS_PASSWORD"]
	}

	if env["SMARTBUS_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["SMARTBUS_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return Use(redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	}))
}

// Use installs an already built client, tests hand in one pointing at miniredis
func Use(client *redis.Client) error {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	return nil
}

func Connected() bool {
	return Client != nil && QueueConnection != nil
}

func Status() string {
	if Connected() {
		return "connected"
	}

	return "disconnected"
}

func Reset() {
	Client = nil
	QueueConnection = nil
}
