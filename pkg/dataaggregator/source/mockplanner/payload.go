package mockplanner

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"gopkg.in/yaml.v3"

	iso8601 "github.com/senseyeio/duration"
)

//go:embed routes.yaml
var defaultPayload []byte

type fareDocument struct {
	Amount   float64 `yaml:"amount"`
	Currency string  `yaml:"currency"`
}

type optionDocument struct {
	ID              int          `yaml:"id"`
	Type            string       `yaml:"type"`
	Duration        string       `yaml:"duration"`
	Fare            fareDocument `yaml:"fare"`
	WalkingDistance int          `yaml:"walkingdistance"`
}

type payloadDocument struct {
	Duration        string           `yaml:"duration"`
	Fare            fareDocument     `yaml:"fare"`
	WalkingDistance int              `yaml:"walkingdistance"`
	Transfers       int              `yaml:"transfers"`
	Options         []optionDocument `yaml:"options"`
}

// Payload is the fixed route answer handed out whatever the coordinates are
type Payload struct {
	Duration        time.Duration
	Fare            ctdf.Fare
	WalkingDistance ctdf.WalkingDistance
	Transfers       int
	Options         []ctdf.RouteOption
}

func DefaultPayload() *Payload {
	payload, err := decodePayload(defaultPayload)
	if err != nil {
		log.Fatal().Err(err).Msg("Embedded route payload is invalid")
	}

	return payload
}

func LoadPayload(path string) (*Payload, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return decodePayload(contents)
}

// RouteResult echoes origin and destination, everything else is fixed
func (p *Payload) RouteResult(origin ctdf.Coordinate, destination ctdf.Coordinate) *ctdf.RouteResult {
	options := make([]ctdf.RouteOption, len(p.Options))
	copy(options, p.Options)

	return &ctdf.RouteResult{
		Origin:          origin,
		Destination:     destination,
		Duration:        ctdf.TravelTime(p.Duration),
		Fare:            p.Fare,
		WalkingDistance: p.WalkingDistance,
		Transfers:       p.Transfers,
		RouteOptions:    options,
	}
}

func decodePayload(contents []byte) (*Payload, error) {
	var document payloadDocument
	if err := yaml.Unmarshal(contents, &document); err != nil {
		return nil, fmt.Errorf("failed to decode route payload: %w", err)
	}

	duration, err := parseDuration(document.Duration)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		Duration:        duration,
		Fare:            ctdf.Fare(document.Fare),
		WalkingDistance: ctdf.WalkingDistance(document.WalkingDistance),
		Transfers:       document.Transfers,
	}

	for _, option := range document.Options {
		optimisationType, err := ctdf.ParseOptimisationType(option.Type)
		if err != nil {
			return nil, fmt.Errorf("route option %d: %w", option.ID, err)
		}

		optionDuration, err := parseDuration(option.Duration)
		if err != nil {
			return nil, fmt.Errorf("route option %d: %w", option.ID, err)
		}

		payload.Options = append(payload.Options, ctdf.RouteOption{
			ID:              option.ID,
			Type:            optimisationType,
			Duration:        ctdf.TravelTime(optionDuration),
			Fare:            ctdf.Fare(option.Fare),
			WalkingDistance: ctdf.WalkingDistance(option.WalkingDistance),
		})
	}

	return payload, nil
}

func parseDuration(value string) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	// Anchor at a fixed instant so calendar units resolve the same way every time
	anchor := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	return parsed.Shift(anchor).Sub(anchor), nil
}
