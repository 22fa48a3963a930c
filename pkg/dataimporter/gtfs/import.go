package gtfs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/sourcegraph/conc/pool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const importBatchSize = 1000

// StopOperations converts boardable stops into upserts keyed by primary identifier
func StopOperations(stops []Stop, datasource *ctdf.DataSource) []mongo.WriteModel {
	now := time.Now()

	p := pool.NewWithResults[mongo.WriteModel]().WithMaxGoroutines(8)

	for _, stop := range stops {
		stop := stop
		p.Go(func() mongo.WriteModel {
			if !stop.Boardable() {
				return nil
			}

			ctdfStop := stop.ToCTDF(datasource, now)
			if position, ok := ctdfStop.Location.Coordinate(); !ok || !position.Valid() {
				log.Warn().Str("stop", stop.ID).Msg("Skipping stop with invalid position")
				return nil
			}

			return mongo.NewReplaceOneModel().
				SetFilter(bson.M{"primaryidentifier": ctdfStop.PrimaryIdentifier}).
				SetReplacement(ctdfStop).
				SetUpsert(true)
		})
	}

	var operations []mongo.WriteModel
	for _, operation := range p.Wait() {
		if operation != nil {
			operations = append(operations, operation)
		}
	}

	return operations
}

func ImportStops(ctx context.Context, stops []Stop, datasource *ctdf.DataSource) (int, error) {
	operations := StopOperations(stops, datasource)
	stopsCollection := database.GetCollection("stops")

	for start := 0; start < len(operations); start += importBatchSize {
		end := min(start+importBatchSize, len(operations))

		if _, err := stopsCollection.BulkWrite(ctx, operations[start:end], &options.BulkWriteOptions{}); err != nil {
			return start, err
		}
	}

	log.Info().Int("stops", len(operations)).Str("dataset", datasource.Dataset).Msg("Imported stops")

	return len(operations), nil
}
