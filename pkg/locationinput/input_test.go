package locationinput

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualScheduler only runs timers when fire is called
type manualScheduler struct {
	mutex  sync.Mutex
	timers []*manualTimer
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	timer := &manualTimer{delay: d, f: f}
	m.timers = append(m.timers, timer)
	return timer
}

func (m *manualScheduler) fire() int {
	m.mutex.Lock()
	var due []*manualTimer
	for _, timer := range m.timers {
		if !timer.stopped && !timer.fired {
			timer.fired = true
			due = append(due, timer)
		}
	}
	m.mutex.Unlock()

	for _, timer := range due {
		timer.f()
	}
	return len(due)
}

type fakeGeocoder struct {
	mutex   sync.Mutex
	queries []string
	results []geocoding.Candidate
	err     error
	release chan struct{}
}

func (f *fakeGeocoder) Search(ctx context.Context, query string) ([]geocoding.Candidate, error) {
	f.mutex.Lock()
	f.queries = append(f.queries, query)
	release := f.release
	results := f.results
	err := f.err
	f.mutex.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return results, err
}

func (f *fakeGeocoder) seen() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return append([]string{}, f.queries...)
}

var corniche = geocoding.Candidate{
	PlaceID:     "2334891",
	DisplayName: "Corniche Road, Al Khalidiyah, Abu Dhabi, United Arab Emirates",
	Coordinate:  ctdf.Coordinate{Latitude: 24.4810, Longitude: 54.3581},
}

var airport = geocoding.Candidate{
	PlaceID:     "77",
	DisplayName: "Zayed International Airport, Abu Dhabi, United Arab Emirates",
	Coordinate:  ctdf.Coordinate{Latitude: 24.4330, Longitude: 54.6511},
}

func waitForPhase(t *testing.T, input *Input, phase Phase) State {
	t.Helper()

	require.Eventually(t, func() bool {
		return input.State().Phase == phase
	}, time.Second, time.Millisecond)

	return input.State()
}

func TestShortTextNeverQueries(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	for _, text := range []string{"", "c", "co"} {
		input.Type(text)

		state := input.State()
		assert.Equal(t, PhaseIdle, state.Phase)
		assert.Empty(t, state.Suggestions)
		assert.False(t, state.DropdownOpen)
	}

	assert.Equal(t, 0, scheduler.fire())
	assert.Empty(t, geocoder.seen())
}

func TestRapidKeystrokesIssueOneQuery(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	for _, text := range []string{"cor", "corn", "corni", "cornic", "corniche"} {
		input.Type(text)
	}

	for _, timer := range scheduler.timers {
		assert.Equal(t, DebounceDelay, timer.delay)
	}

	assert.Equal(t, 1, scheduler.fire())

	state := waitForPhase(t, input, PhasePopulated)
	assert.Equal(t, []string{"corniche"}, geocoder.seen())
	assert.True(t, state.DropdownOpen)
	assert.Len(t, state.Suggestions, 1)
}

func TestRapidKeystrokesWithClockScheduler(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
	input := New(geocoder, WithDebounce(50*time.Millisecond))
	defer input.Close()

	for _, text := range []string{"air", "airp", "airpo", "airpor", "airport"} {
		input.Type(text)
	}

	waitForPhase(t, input, PhasePopulated)
	assert.Equal(t, []string{"airport"}, geocoder.seen())
}

func TestDroppingBelowMinimumCancelsPendingQuery(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	input.Type("corn")
	input.Type("co")

	assert.Equal(t, 0, scheduler.fire())
	assert.Equal(t, PhaseIdle, input.State().Phase)
	assert.Empty(t, geocoder.seen())
}

func TestSelectResolvesCoordinate(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche, airport}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler), WithLabel("To"))
	defer input.Close()

	var selected []ctdf.PlaceQuery
	input.OnSelect(func(place ctdf.PlaceQuery) {
		selected = append(selected, place)
	})

	input.Type("abu dhabi")
	scheduler.fire()
	waitForPhase(t, input, PhasePopulated)

	place, err := input.Select(1)
	require.NoError(t, err)

	require.NotNil(t, place.Coordinate)
	assert.Equal(t, 24.4330, place.Coordinate.Latitude)
	assert.Equal(t, 54.6511, place.Coordinate.Longitude)
	assert.Equal(t, "Zayed International Airport, Abu Dhabi", place.Text)
	assert.Equal(t, airport.DisplayName, place.FullAddress)
	assert.Equal(t, []ctdf.PlaceQuery{place}, selected)

	state := input.State()
	assert.Equal(t, "To", state.Label)
	assert.Equal(t, PhaseSelected, state.Phase)
	assert.False(t, state.DropdownOpen)
	assert.Empty(t, state.Suggestions)
	assert.True(t, state.Place.Resolved())

	// Selecting does not trigger another lookup
	assert.Equal(t, 0, scheduler.fire())
	assert.Len(t, geocoder.seen(), 1)
}

func TestSelectRequiresOpenDropdown(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	_, err := input.Select(0)
	assert.ErrorIs(t, err, ErrNoSuggestion)

	input.Type("corniche")
	scheduler.fire()
	waitForPhase(t, input, PhasePopulated)

	_, err = input.Select(5)
	assert.ErrorIs(t, err, ErrNoSuggestion)

	input.Dismiss()
	state := input.State()
	assert.False(t, state.DropdownOpen)
	assert.Equal(t, "corniche", state.Text)

	_, err = input.Select(0)
	assert.ErrorIs(t, err, ErrNoSuggestion)

	input.Focus()
	assert.True(t, input.State().DropdownOpen)

	_, err = input.Select(0)
	assert.NoError(t, err)
}

func TestEmptyResultsCloseDropdown(t *testing.T) {
	geocoder := &fakeGeocoder{}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	input.Type("nowhere")
	scheduler.fire()

	state := waitForPhase(t, input, PhaseEmpty)
	assert.False(t, state.DropdownOpen)
	assert.Equal(t, "nowhere", state.Text)
	assert.Empty(t, state.Error)
}

func TestLookupFailure(t *testing.T) {
	geocoder := &fakeGeocoder{err: &geocoding.LookupError{Query: "corniche", StatusCode: 503}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	input.Type("corniche")
	scheduler.fire()

	state := waitForPhase(t, input, PhaseFailed)
	assert.Equal(t, geocoding.LookupMessage, state.Error)
	assert.Empty(t, state.Suggestions)
	assert.False(t, state.DropdownOpen)

	// Error clears once the text is short again
	input.Type("c")
	assert.Empty(t, input.State().Error)
}

func TestStaleResponseIsDropped(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}, release: make(chan struct{})}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	input.Type("corn")
	scheduler.fire()
	waitForPhase(t, input, PhaseQuerying)
	firstSequence := input.State().Sequence

	input.Type("corniche")
	assert.Greater(t, input.State().Sequence, firstSequence)

	geocoder.mutex.Lock()
	geocoder.release = nil
	geocoder.mutex.Unlock()

	scheduler.fire()
	waitForPhase(t, input, PhasePopulated)

	assert.Equal(t, []string{"corn", "corniche"}, geocoder.seen())
	assert.Equal(t, "corniche", input.State().Text)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))
	defer input.Close()

	var mutex sync.Mutex
	var phases []Phase
	input.OnChange(func(state State) {
		mutex.Lock()
		defer mutex.Unlock()
		phases = append(phases, state.Phase)
	})

	input.Type("corniche")
	scheduler.fire()
	waitForPhase(t, input, PhasePopulated)

	require.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return len(phases) == 3
	}, time.Second, time.Millisecond)

	assert.Equal(t, []Phase{PhaseIdle, PhaseQuerying, PhasePopulated}, phases)

	snapshot := input.State()
	snapshot.Suggestions[0].DisplayName = "changed"
	assert.Equal(t, corniche.DisplayName, input.State().Suggestions[0].DisplayName)
}

func TestCloseStopsPendingWork(t *testing.T) {
	geocoder := &fakeGeocoder{release: make(chan struct{})}
	scheduler := &manualScheduler{}
	input := New(geocoder, WithScheduler(scheduler))

	input.Type("corniche")
	scheduler.fire()
	waitForPhase(t, input, PhaseQuerying)

	done := make(chan struct{})
	go func() {
		input.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the in-flight lookup")
	}

	// The cancelled lookup is not reported as a provider failure
	state := input.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, "corniche", state.Text)
}

func TestObserversEndOnCurrentState(t *testing.T) {
	for n := 0; n < 200; n++ {
		geocoder := &fakeGeocoder{results: []geocoding.Candidate{corniche}}
		input := New(geocoder, WithDebounce(time.Microsecond))

		var mutex sync.Mutex
		var last State
		input.OnChange(func(state State) {
			mutex.Lock()
			defer mutex.Unlock()
			last = state
		})

		// The first lookup can still be running when the second keystroke lands
		input.Type("corn")
		input.Type("corniche")

		require.Eventually(t, func() bool {
			state := input.State()
			if state.Phase != PhasePopulated || state.Loading || !slices.Contains(geocoder.seen(), "corniche") {
				return false
			}

			mutex.Lock()
			defer mutex.Unlock()
			return assert.ObjectsAreEqual(state, last)
		}, time.Second, time.Millisecond, "iteration %d", n)

		input.Close()
	}
}
