package tripsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
)

// HTTPPlanner asks the planner endpoint of the web API
type HTTPPlanner struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPPlanner(baseURL string) *HTTPPlanner {
	return &HTTPPlanner{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *HTTPPlanner) Plan(ctx context.Context, request PlanRequest) (*ctdf.RouteResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	parameters := url.Values{}
	parameters.Set("origin", request.Origin.String())
	parameters.Set("destination", request.Destination.String())
	parameters.Set("optimisation", string(request.Optimisation))
	parameters.Set("detailed", "true")

	requestURL := fmt.Sprintf("%s/core/planner?%s", h.BaseURL, parameters.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &PlanError{Reason: ErrInvalidInput, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, &PlanError{Reason: ErrServiceUnavailable, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().Str("url", requestURL).Int("status", resp.StatusCode).Msg("Route planner response")

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var routeResult *ctdf.RouteResult
	if err := json.NewDecoder(resp.Body).Decode(&routeResult); err != nil {
		return nil, &PlanError{Reason: ErrServiceUnavailable, StatusCode: resp.StatusCode, Err: err}
	}
	if routeResult == nil {
		return nil, &PlanError{Reason: ErrNoRouteFound, StatusCode: resp.StatusCode}
	}

	return routeResult, nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	contents, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	json.Unmarshal(contents, &body)

	planError := &PlanError{StatusCode: resp.StatusCode}
	if body.Error != "" {
		planError.Err = errors.New(body.Error)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		planError.Reason = ErrInvalidInput
	case http.StatusNotFound:
		planError.Reason = ErrNoRouteFound
	default:
		planError.Reason = ErrServiceUnavailable
	}

	return planError
}
