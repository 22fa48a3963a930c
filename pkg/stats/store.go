package stats

import (
	"context"

	"github.com/smartbus/routeplanner/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Record(ctx context.Context, counters []*DailyCounter) error
}

// MongoStore increments the trip_search_stats documents
type MongoStore struct{}

func (m MongoStore) Record(ctx context.Context, counters []*DailyCounter) error {
	if len(counters) == 0 {
		return nil
	}

	var updateOperations []mongo.WriteModel

	for _, counter := range counters {
		increments := bson.M{
			"searches":  counter.Searches,
			"successes": counter.Successes,
			"failures":  counter.Failures,
		}
		for reason, count := range counter.FailReasons {
			increments["failreasons."+reason] = count
		}

		updateOperations = append(updateOperations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"date": counter.Date, "optimisation": counter.Optimisation}).
			SetUpdate(bson.M{"$inc": increments}).
			SetUpsert(true))
	}

	collection := database.GetCollection("trip_search_stats")
	_, err := collection.BulkWrite(ctx, updateOperations, options.BulkWrite().SetOrdered(false))

	return err
}
