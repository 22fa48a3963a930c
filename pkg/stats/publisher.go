package stats

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/smartbus/routeplanner/pkg/ctdf"
)

const TripSearchQueue = "trip-search-events"

type Publisher struct {
	queue rmq.Queue
}

func NewPublisher(connection rmq.Connection) (*Publisher, error) {
	queue, err := connection.OpenQueue(TripSearchQueue)
	if err != nil {
		return nil, err
	}

	return &Publisher{queue: queue}, nil
}

func (p *Publisher) Publish(event *ctdf.TripSearchEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.queue.PublishBytes(eventBytes)
}
