package locationinput

import (
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/geocoding"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseQuerying  Phase = "querying"
	PhasePopulated Phase = "populated"
	PhaseEmpty     Phase = "empty"
	PhaseFailed    Phase = "failed"
	PhaseSelected  Phase = "selected"
)

// State is a snapshot of one input. Snapshots are never modified after they
// are handed out.
type State struct {
	Label string
	Text  string
	Phase Phase

	Suggestions  []geocoding.Candidate
	DropdownOpen bool
	Loading      bool
	Error        string

	Place ctdf.PlaceQuery

	// Sequence of the latest issued query, responses for anything older are dropped
	Sequence uint64
}
