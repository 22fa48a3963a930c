package geocoding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/util"
	"golang.org/x/text/cases"
)

// MinimumQueryLength is the shortest query that reaches the provider
const MinimumQueryLength = 3

type Candidate struct {
	PlaceID     string          `json:"placeId"`
	DisplayName string          `json:"displayName"`
	Coordinate  ctdf.Coordinate `json:"coordinate"`
}

// MainAddress is the first two parts of the display name, used as the
// selected label
func (c Candidate) MainAddress() string {
	return util.CommaParts(c.DisplayName, 0, 2)
}

func (c Candidate) SubAddress() string {
	return strings.TrimSpace(util.CommaParts(c.DisplayName, 2, 4))
}

type Client struct {
	Region     *Region
	HTTPClient *http.Client
}

func NewClient(region *Region) *Client {
	return &Client{
		Region: region,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search looks up free text against the provider and returns the candidates
// inside the region's city, in provider order. Short queries return nothing
// without making a request.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	if utf8.RuneCountInString(query) < MinimumQueryLength {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Region.Endpoint, nil)
	if err != nil {
		return nil, &LookupError{Query: query, Err: err}
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(c.Region.ResultLimit))
	q.Set("countrycodes", c.Region.CountryCode)
	q.Set("addressdetails", "1")
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", c.Region.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &LookupError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LookupError{Query: query, StatusCode: resp.StatusCode}
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, &LookupError{Query: query, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	candidates := make([]Candidate, 0, len(places))
	for _, place := range places {
		candidate, err := place.toCandidate()
		if err != nil {
			log.Debug().Err(err).Str("place", place.DisplayName).Msg("Skipping unparseable geocoding result")
			continue
		}

		candidates = append(candidates, candidate)
	}

	total := len(candidates)
	util.InPlaceFilter(&candidates, c.inRegion)

	log.Debug().
		Str("query", query).
		Int("results", total).
		Int("filtered", len(candidates)).
		Msg("Geocoding search")

	return candidates, nil
}

func (c *Client) inRegion(candidate Candidate) bool {
	fold := cases.Fold()
	displayName := fold.String(candidate.DisplayName)

	for _, cityName := range c.Region.CityNames {
		if strings.Contains(displayName, fold.String(cityName)) {
			return true
		}
	}

	return false
}

type nominatimPlace struct {
	PlaceID     flexibleString `json:"place_id"`
	DisplayName string         `json:"display_name"`
	Latitude    flexibleString `json:"lat"`
	Longitude   flexibleString `json:"lon"`
}

func (p nominatimPlace) toCandidate() (Candidate, error) {
	latitude, err := strconv.ParseFloat(string(p.Latitude), 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("latitude: %w", err)
	}
	longitude, err := strconv.ParseFloat(string(p.Longitude), 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("longitude: %w", err)
	}

	return Candidate{
		PlaceID:     string(p.PlaceID),
		DisplayName: p.DisplayName,
		Coordinate: ctdf.Coordinate{
			Latitude:  latitude,
			Longitude: longitude,
		},
	}, nil
}

// flexibleString accepts either a JSON string or a JSON number
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = flexibleString(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = flexibleString(number.String())

	return nil
}
