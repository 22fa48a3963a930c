package geocoding

import "fmt"

// LookupMessage is shown next to the input when a lookup fails
const LookupMessage = "Failed to search locations. Please try again."

type LookupError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocoding lookup for %q failed: %s", e.Query, e.Err)
	}

	return fmt.Sprintf("geocoding lookup for %q failed with status %d", e.Query, e.StatusCode)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
