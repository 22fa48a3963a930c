package locationinput

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/geocoding"
	"github.com/sourcegraph/conc"
)

const DebounceDelay = 500 * time.Millisecond

var ErrNoSuggestion = errors.New("no suggestion at that position")

type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocoding.Candidate, error)
}

type Option func(*Input)

func WithScheduler(scheduler Scheduler) Option {
	return func(i *Input) {
		i.scheduler = scheduler
	}
}

func WithDebounce(delay time.Duration) Option {
	return func(i *Input) {
		i.delay = delay
	}
}

func WithLabel(label string) Option {
	return func(i *Input) {
		i.state.Label = label
	}
}

// Input is a place search box bound to a geocoder. Keystrokes are debounced,
// only the latest query may update the suggestion list.
type Input struct {
	geocoder  Geocoder
	scheduler Scheduler
	delay     time.Duration

	mutex        sync.Mutex
	state        State
	timer        Timer
	cancelLookup context.CancelFunc
	closed       bool
	lookups      conc.WaitGroup

	onChange []func(State)
	onSelect []func(ctdf.PlaceQuery)

	deliveryMutex sync.Mutex
	deliveries    []delivery
	delivering    bool
}

// delivery is a snapshot waiting for the observers registered when it was taken
type delivery struct {
	state     State
	observers []func(State)
}

func New(geocoder Geocoder, options ...Option) *Input {
	input := &Input{
		geocoder:  geocoder,
		scheduler: clockScheduler{},
		delay:     DebounceDelay,
		state: State{
			Phase: PhaseIdle,
		},
	}

	for _, option := range options {
		option(input)
	}

	return input
}

// OnChange registers an observer for every new state
func (i *Input) OnChange(f func(State)) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.onChange = append(i.onChange, f)
}

// OnSelect registers an observer for resolved places
func (i *Input) OnSelect(f func(ctdf.PlaceQuery)) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.onSelect = append(i.onSelect, f)
}

func (i *Input) State() State {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	return i.snapshotLocked()
}

// Type replaces the input text as a keystroke would
func (i *Input) Type(text string) {
	i.mutex.Lock()

	i.stopPendingLocked()
	i.state.Sequence++
	sequence := i.state.Sequence

	i.state.Text = text
	i.state.Place = ctdf.PlaceQuery{Text: text}
	i.state.Loading = false

	if utf8.RuneCountInString(text) < geocoding.MinimumQueryLength {
		i.state.Phase = PhaseIdle
		i.state.Suggestions = nil
		i.state.DropdownOpen = false
		i.state.Error = ""
	} else {
		if i.state.Phase == PhaseSelected {
			i.state.Phase = PhaseIdle
		}

		if !i.closed {
			i.timer = i.scheduler.AfterFunc(i.delay, func() {
				i.startLookup(sequence)
			})
		}
	}

	i.publishLocked()
	i.mutex.Unlock()

	i.deliver()
}

// Select picks the suggestion at index from the open dropdown
func (i *Input) Select(index int) (ctdf.PlaceQuery, error) {
	i.mutex.Lock()

	if i.state.Phase != PhasePopulated || !i.state.DropdownOpen || index < 0 || index >= len(i.state.Suggestions) {
		i.mutex.Unlock()
		return ctdf.PlaceQuery{}, ErrNoSuggestion
	}

	candidate := i.state.Suggestions[index]
	coordinate := candidate.Coordinate
	place := ctdf.PlaceQuery{
		Text:        candidate.MainAddress(),
		Coordinate:  &coordinate,
		FullAddress: candidate.DisplayName,
	}

	i.stopPendingLocked()
	i.state.Sequence++

	i.state.Text = place.Text
	i.state.Place = place
	i.state.Phase = PhaseSelected
	i.state.Suggestions = nil
	i.state.DropdownOpen = false
	i.state.Loading = false
	i.state.Error = ""

	i.publishLocked()
	onSelect := append([]func(ctdf.PlaceQuery){}, i.onSelect...)
	i.mutex.Unlock()

	i.deliver()
	for _, f := range onSelect {
		f(place)
	}

	return place, nil
}

// Dismiss closes the dropdown, as a click outside it would. Text is kept.
func (i *Input) Dismiss() {
	i.mutex.Lock()

	if !i.state.DropdownOpen {
		i.mutex.Unlock()
		return
	}
	i.state.DropdownOpen = false

	i.publishLocked()
	i.mutex.Unlock()

	i.deliver()
}

// Focus reopens the dropdown if there is anything to show
func (i *Input) Focus() {
	i.mutex.Lock()

	if i.state.DropdownOpen || i.state.Phase != PhasePopulated || len(i.state.Suggestions) == 0 {
		i.mutex.Unlock()
		return
	}
	i.state.DropdownOpen = true

	i.publishLocked()
	i.mutex.Unlock()

	i.deliver()
}

// Close cancels pending and in-flight queries and waits for them to finish.
// A cancelled query leaves no trace in the state.
func (i *Input) Close() {
	i.mutex.Lock()
	i.closed = true

	if i.timer == nil && i.cancelLookup == nil {
		i.mutex.Unlock()
		i.lookups.Wait()
		return
	}

	i.stopPendingLocked()
	i.state.Sequence++
	i.state.Loading = false
	if i.state.Phase == PhaseQuerying {
		i.state.Phase = PhaseIdle
	}

	i.publishLocked()
	i.mutex.Unlock()

	i.deliver()
	i.lookups.Wait()
}

func (i *Input) startLookup(sequence uint64) {
	i.mutex.Lock()

	// Timer fired after being replaced by a later keystroke
	if i.closed || sequence != i.state.Sequence {
		i.mutex.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	i.timer = nil
	i.cancelLookup = cancel

	i.state.Phase = PhaseQuerying
	i.state.Loading = true
	i.state.Error = ""
	query := i.state.Text

	// Queued before the worker can publish its result
	i.publishLocked()

	i.lookups.Go(func() {
		defer cancel()
		i.lookup(ctx, sequence, query)
	})

	i.mutex.Unlock()

	i.deliver()
}

func (i *Input) lookup(ctx context.Context, sequence uint64, query string) {
	candidates, err := i.geocoder.Search(ctx, query)

	i.mutex.Lock()

	if sequence != i.state.Sequence {
		i.mutex.Unlock()
		log.Debug().Str("query", query).Uint64("sequence", sequence).Msg("Dropping stale geocoding response")
		return
	}

	i.cancelLookup = nil
	i.state.Loading = false

	switch {
	case err != nil:
		log.Warn().Err(err).Str("query", query).Msg("Location search failed")

		i.state.Phase = PhaseFailed
		i.state.Error = geocoding.LookupMessage
		i.state.Suggestions = nil
		i.state.DropdownOpen = false
	case len(candidates) == 0:
		i.state.Phase = PhaseEmpty
		i.state.Suggestions = nil
		i.state.DropdownOpen = false
	default:
		i.state.Phase = PhasePopulated
		i.state.Suggestions = candidates
		i.state.DropdownOpen = true
	}

	i.publishLocked()
	i.mutex.Unlock()

	i.deliver()
}

func (i *Input) stopPendingLocked() {
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
	if i.cancelLookup != nil {
		i.cancelLookup()
		i.cancelLookup = nil
	}
}

func (i *Input) snapshotLocked() State {
	var snapshot State
	if err := copier.CopyWithOption(&snapshot, &i.state, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("Failed to copy input state")
		return i.state
	}

	return snapshot
}

// publishLocked queues the current state for observers. Holding the state
// mutex keeps the queue in transition order.
func (i *Input) publishLocked() {
	next := delivery{
		state:     i.snapshotLocked(),
		observers: append([]func(State){}, i.onChange...),
	}

	i.deliveryMutex.Lock()
	i.deliveries = append(i.deliveries, next)
	i.deliveryMutex.Unlock()
}

// deliver hands queued snapshots to observers one at a time and in order. If
// another goroutine is already delivering it takes over this snapshot too.
func (i *Input) deliver() {
	i.deliveryMutex.Lock()
	if i.delivering {
		i.deliveryMutex.Unlock()
		return
	}
	i.delivering = true

	for len(i.deliveries) > 0 {
		next := i.deliveries[0]
		i.deliveries = i.deliveries[1:]
		i.deliveryMutex.Unlock()

		for _, f := range next.observers {
			f(next.state)
		}

		i.deliveryMutex.Lock()
	}

	i.delivering = false
	i.deliveryMutex.Unlock()
}
