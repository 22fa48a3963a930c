package ctdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type OptimisationType string

const (
	OptimisationTypeFastest        OptimisationType = "fastest"
	OptimisationTypeCheapest       OptimisationType = "cheapest"
	OptimisationTypeMinimalWalking OptimisationType = "minimal_walking"
	OptimisationTypeGreenest       OptimisationType = "greenest"
)

var OptimisationTypes = []OptimisationType{
	OptimisationTypeFastest,
	OptimisationTypeCheapest,
	OptimisationTypeMinimalWalking,
	OptimisationTypeGreenest,
}

func ParseOptimisationType(value string) (OptimisationType, error) {
	for _, optimisationType := range OptimisationTypes {
		if string(optimisationType) == value {
			return optimisationType, nil
		}
	}

	return "", fmt.Errorf("unknown optimisation type %q", value)
}

// Title is the results panel heading, eg. MINIMAL WALKING
func (o OptimisationType) Title() string {
	return strings.ToUpper(strings.Replace(string(o), "_", " ", 1))
}

type Fare struct {
	Amount   float64 `json:"amount" groups:"basic"`
	Currency string  `json:"currency" groups:"basic"`
}

func (f Fare) String() string {
	return fmt.Sprintf("%s %.2f", f.Currency, f.Amount)
}

// WalkingDistance is in metres
type WalkingDistance int

func (w WalkingDistance) String() string {
	if w >= 1000 {
		return strconv.FormatFloat(float64(w)/1000, 'f', -1, 64) + " km"
	}

	return fmt.Sprintf("%d m", int(w))
}

func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%d min", int(d.Round(time.Minute).Minutes()))
}

// TravelTime is a route duration, exchanged as a number of minutes
type TravelTime time.Duration

func (t TravelTime) Duration() time.Duration {
	return time.Duration(t)
}

func (t TravelTime) Minutes() float64 {
	return time.Duration(t).Minutes()
}

func (t TravelTime) String() string {
	return FormatDuration(time.Duration(t))
}

func (t TravelTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(t.Minutes(), 'f', -1, 64)), nil
}

func (t *TravelTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	minutes, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("travel time must be a number of minutes: %w", err)
	}

	*t = TravelTime(time.Duration(minutes * float64(time.Minute)).Round(time.Second))
	return nil
}

type RouteResult struct {
	Origin      Coordinate `json:"origin" groups:"basic"`
	Destination Coordinate `json:"destination" groups:"basic"`

	Duration        TravelTime      `json:"durationMinutes" groups:"basic"`
	Fare            Fare            `json:"fare" groups:"basic"`
	WalkingDistance WalkingDistance `json:"walkingDistance" groups:"basic"`
	Transfers       int             `json:"transfers" groups:"basic"`

	RouteOptions []RouteOption `json:"routeOptions" groups:"basic"`
}

type RouteOption struct {
	ID   int              `json:"id" groups:"basic"`
	Type OptimisationType `json:"type" groups:"basic"`

	Duration        TravelTime      `json:"durationMinutes" groups:"basic"`
	Fare            Fare            `json:"fare" groups:"detailed"`
	WalkingDistance WalkingDistance `json:"walkingDistance" groups:"detailed"`
}

// Summary is the results panel text for the overall route
func (r *RouteResult) Summary() []string {
	return []string{
		fmt.Sprintf("Duration: %s", r.Duration),
		fmt.Sprintf("Estimated Fare: %s", r.Fare),
		fmt.Sprintf("Walking Distance: %s", r.WalkingDistance),
		fmt.Sprintf("Transfers: %d", r.Transfers),
	}
}
