package databaselookup

import (
	"context"
	"errors"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/query"
	"github.com/smartbus/routeplanner/pkg/database"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultStopLimit = 500

var ErrStopNotFound = errors.New("could not find a matching Stop")

func (s Source) StopQuery(stopQuery query.Stop) (*ctdf.Stop, error) {
	if !database.Connected() {
		return nil, database.ErrDisconnected
	}

	filter := stopQuery.ToBson()
	if filter == nil {
		return nil, errors.New("a Stop identifier must be provided")
	}

	stopsCollection := database.GetCollection("stops")
	var stop *ctdf.Stop
	err := stopsCollection.FindOne(context.Background(), filter).Decode(&stop)

	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && stop == nil) {
		return nil, ErrStopNotFound
	} else if err != nil {
		return nil, err
	}

	return stop, nil
}

func (s Source) StopsInBoundsQuery(boundsQuery query.StopsInBounds) ([]*ctdf.Stop, error) {
	if !database.Connected() {
		return nil, database.ErrDisconnected
	}

	limit := boundsQuery.Limit
	if limit <= 0 {
		limit = DefaultStopLimit
	}

	stopsCollection := database.GetCollection("stops")
	cursor, err := stopsCollection.Find(context.Background(), boundsQuery.ToBson(), options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}

	stops := []*ctdf.Stop{}
	if err := cursor.All(context.Background(), &stops); err != nil {
		return nil, err
	}

	return stops, nil
}
