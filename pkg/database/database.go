package database

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

var connected atomic.Bool

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "smartbus"

var ErrDisconnected = errors.New("database is not connected")

type ConnectionError struct {
	ConnectionString string
	Err              error
}

func (e *ConnectionError) Error() string {
	return "failed to connect to MongoDB: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type ConnectOptions struct {
	// How long to keep retrying before giving up, zero means a single attempt
	RetryFor time.Duration
}

type Config struct {
	ConnectionString string
	Database         string
}

func ConfigFromEnvironment() Config {
	config := Config{
		ConnectionString: defaultMongoConnectionString,
		Database:         defaultMongoDatabase,
	}

	env := util.GetEnvironmentVariables()

	if env["SMARTBUS_MONGODB_CONNECTION"] != "" {
		config.ConnectionString = env["SMARTBUS_MONGODB_CONNECTION"]
	}

	if env["SMARTBUS_MONGODB_DATABASE"] != "" {
		config.Database = env["SMARTBUS_MONGODB_DATABASE"]
	}

	return config
}

// Connect opens the process wide MongoDB client, retrying with exponential
// backoff. On failure the returned error is a *ConnectionError and the package
// stays in the disconnected state.
func Connect(ctx context.Context, connectOptions ConnectOptions) error {
	config := ConfigFromEnvironment()

	var retryBackoff backoff.BackOff = &backoff.StopBackOff{}
	if connectOptions.RetryFor > 0 {
		exponentialBackoff := backoff.NewExponentialBackOff()
		exponentialBackoff.MaxElapsedTime = connectOptions.RetryFor
		retryBackoff = exponentialBackoff
	}

	var instance *MongoInstance
	err := backoff.RetryNotify(func() error {
		var err error
		instance, err = open(ctx, config)
		return err
	}, backoff.WithContext(retryBackoff, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry", wait).Msg("MongoDB connection failed, retrying")
	})

	if err != nil {
		connected.Store(false)
		return &ConnectionError{ConnectionString: config.ConnectionString, Err: err}
	}

	Use(instance.Client, config.Database)

	createIndexes()

	log.Info().Str("database", config.Database).Msg("Connected to MongoDB")

	return nil
}

func open(ctx context.Context, config Config) (*MongoInstance, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoInstance{
		Client:   client,
		Database: client.Database(config.Database),
	}, nil
}

// Use installs an opened client as the process wide instance
func Use(client *mongo.Client, databaseName string) {
	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(databaseName),
	}
	connected.Store(true)
}

// Connected reports whether Connect succeeded, when false the process is running degraded
func Connected() bool {
	return connected.Load()
}

// Status is what the health endpoint reports for the database
func Status() string {
	if Connected() {
		return "connected"
	}

	return "disconnected"
}

func Disconnect(ctx context.Context) error {
	if !connected.Swap(false) || MongoGlobalInstance == nil {
		return nil
	}

	return MongoGlobalInstance.Client.Disconnect(ctx)
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}
