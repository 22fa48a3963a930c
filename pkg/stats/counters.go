package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/smartbus/routeplanner/pkg/ctdf"
)

// DailyCounter is one row of trip_search_stats
type DailyCounter struct {
	Date         string
	Optimisation ctdf.OptimisationType

	Searches  int
	Successes int
	Failures  int

	FailReasons map[string]int
}

// Aggregate groups events by UTC day and optimisation
func Aggregate(events []*ctdf.TripSearchEvent) []*DailyCounter {
	counters := map[string]*DailyCounter{}

	for _, event := range events {
		date := event.Timestamp.UTC().Format(time.DateOnly)
		key := fmt.Sprintf("%s/%s", date, event.Optimisation)

		counter, exists := counters[key]
		if !exists {
			counter = &DailyCounter{
				Date:         date,
				Optimisation: event.Optimisation,
				FailReasons:  map[string]int{},
			}
			counters[key] = counter
		}

		counter.Searches += 1
		if event.Success {
			counter.Successes += 1
		} else {
			counter.Failures += 1
			counter.FailReasons[event.FailReason] += 1
		}
	}

	aggregated := make([]*DailyCounter, 0, len(counters))
	for _, counter := range counters {
		aggregated = append(aggregated, counter)
	}

	sort.Slice(aggregated, func(i, j int) bool {
		if aggregated[i].Date != aggregated[j].Date {
			return aggregated[i].Date < aggregated[j].Date
		}
		return aggregated[i].Optimisation < aggregated[j].Optimisation
	})

	return aggregated
}

func IndexName(timestamp time.Time) string {
	return fmt.Sprintf("smartbus-trip-searches-%s", timestamp.UTC().Format(time.DateOnly))
}
