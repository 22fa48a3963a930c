package tripsearch

import (
	"context"
	"time"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/dataaggregator/source/mockplanner"
)

const DefaultMockDelay = 1 * time.Second

// MockPlanner waits a fixed delay and then answers with the same payload for
// every request, only origin and destination are echoed back
type MockPlanner struct {
	Delay   time.Duration
	Payload *mockplanner.Payload
}

func NewMockPlanner() *MockPlanner {
	return &MockPlanner{
		Delay:   DefaultMockDelay,
		Payload: mockplanner.DefaultPayload(),
	}
}

func (m *MockPlanner) Plan(ctx context.Context, request PlanRequest) (*ctdf.RouteResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := m.Payload
	if payload == nil {
		payload = mockplanner.DefaultPayload()
	}

	return payload.RouteResult(request.Origin, request.Destination), nil
}
