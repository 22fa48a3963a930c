package stats

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/elastic_client"
)

type TripSearchBatchConsumer struct {
	Store Store
}

func NewTripSearchBatchConsumer(store Store) *TripSearchBatchConsumer {
	return &TripSearchBatchConsumer{Store: store}
}

func (c *TripSearchBatchConsumer) Consume(batch rmq.Deliveries) {
	var events []*ctdf.TripSearchEvent
	var decoded rmq.Deliveries

	for _, delivery := range batch {
		var event *ctdf.TripSearchEvent
		if err := json.Unmarshal([]byte(delivery.Payload()), &event); err != nil || event == nil {
			log.Error().Err(err).Msg("Failed to decode trip search event")
			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject trip search event")
			}
			continue
		}

		events = append(events, event)
		decoded = append(decoded, delivery)
	}

	if len(events) == 0 {
		return
	}

	if err := c.Store.Record(context.Background(), Aggregate(events)); err != nil {
		log.Error().Err(err).Msg("Failed to record trip search stats")

		// Rejected deliveries stay in redis and can be returned with ReturnRejected
		for _, err := range decoded.Reject() {
			log.Error().Err(err).Msg("Failed to reject trip search event")
		}
		return
	}

	for _, event := range events {
		if err := elastic_client.IndexDocument(IndexName(event.Timestamp), event); err != nil {
			log.Error().Err(err).Str("event", event.Identifier).Msg("Failed to index trip search event")
		}
	}

	for _, err := range decoded.Ack() {
		log.Error().Err(err).Msg("Failed to ack trip search event")
	}

	log.Debug().Int("events", len(events)).Msg("Recorded trip search events")
}
