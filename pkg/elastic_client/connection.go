package elastic_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/util"
)

var Client *elasticsearch.Client
var bulkIndexer esutil.BulkIndexer

var ErrNotConfigured = errors.New("Elasticsearch configuration not set")

// Connect sets up the client and bulk indexer. Without an address configured
// indexing is silently skipped unless required is set.
func Connect(required bool) error {
	env := util.GetEnvironmentVariables()

	if env["SMARTBUS_ELASTICSEARCH_ADDRESS"] == "" {
		if required {
			return ErrNotConfigured
		}

		log.Info().Msg("Skipping Elasticsearch setup")
		return nil
	}

	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{env["SMARTBUS_ELASTICSEARCH_ADDRESS"]},
		Username:  env["SMARTBUS_ELASTICSEARCH_USERNAME"],
		Password:  env["SMARTBUS_ELASTICSEARCH_PASSWORD"],

		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return err
	}

	if err := Use(es); err != nil {
		return err
	}

	log.Info().Msgf("Elasticsearch client setup for %s", env["SMARTBUS_ELASTICSEARCH_ADDRESS"])

	return nil
}

func Use(es *elasticsearch.Client) error {
	res, err := es.Info()
	if err != nil {
		return err
	}
	res.Body.Close()

	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		FlushInterval: 15 * time.Second,
	})
	if err != nil {
		return err
	}

	Client = es
	bulkIndexer = indexer

	return nil
}

func IndexRequest(indexName string, document io.ReadSeeker) {
	if Client == nil {
		return
	}

	bulkIndexer.Add(
		context.Background(),
		esutil.BulkIndexerItem{
			Index:  indexName,
			Action: "index",
			Body:   document,
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Error().Err(err).Str("indexName", indexName).Msg("Failed to index document")
				} else {
					log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Failed to index document")
				}
			},
		},
	)
}

func IndexDocument(indexName string, document any) error {
	if Client == nil {
		return nil
	}

	encoded, err := json.Marshal(document)
	if err != nil {
		return err
	}

	IndexRequest(indexName, bytes.NewReader(encoded))

	return nil
}

func WaitUntilQueueEmpty() {
	if bulkIndexer == nil {
		return
	}

	bulkIndexer.Close(context.Background())
}
