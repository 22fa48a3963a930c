package tripsearch

import (
	"fmt"

	"github.com/smartbus/routeplanner/pkg/ctdf"
)

// ResultsPanel is the text of the results panel for a route result
func ResultsPanel(result *ctdf.RouteResult) []string {
	if result == nil {
		return nil
	}

	lines := []string{"Route Details"}
	lines = append(lines, result.Summary()...)

	if len(result.RouteOptions) == 0 {
		return lines
	}

	lines = append(lines, "", "Route Options")
	for _, option := range result.RouteOptions {
		lines = append(lines,
			option.Type.Title(),
			fmt.Sprintf("  ⏱ %s", option.Duration),
			fmt.Sprintf("  💰 %s", option.Fare),
			fmt.Sprintf("  🚶 %s walking", option.WalkingDistance),
		)
	}

	return lines
}
