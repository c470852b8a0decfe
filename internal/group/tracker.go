package group

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/groupsense/internal/event"
	"github.com/Iron-Ham/groupsense/internal/group/match"
	"github.com/Iron-Ham/groupsense/internal/logging"
)

// Config holds the probe settings for a Tracker.
type Config struct {
	// ProbeCommand is sent to the server to request a group status report.
	ProbeCommand string

	// ProbeTimeout bounds how long Check waits for the status report.
	ProbeTimeout time.Duration
}

// DefaultConfig returns the probe settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		ProbeCommand: "group",
		ProbeTimeout: 3 * time.Second,
	}
}

// Commander sends a command line to the game server.
type Commander interface {
	Send(ctx context.Context, command string) error
}

// RoomObserver reports the nouns of the players currently visible in the
// character's room. It gives Broken an independent signal to compare
// tracked membership against.
type RoomObserver interface {
	Players() []string
}

// Tracker owns the group State for one game session. Dispatch is the only
// path that applies server lines; every read returns a copy.
//
// Tracker is safe for concurrent use. Dispatch is expected to run on the
// goroutine that consumes server output, and Check blocks its caller while
// that goroutine keeps dispatching. Calling a probing query (Check,
// MaybeCheck, Members, Open, Closed, AddMembers) from the dispatching
// goroutine itself stalls until the probe timeout.
type Tracker struct {
	mu      sync.Mutex
	probeMu sync.Mutex // serializes probes

	cfg     Config
	matcher *match.Matcher
	state   State

	// changed is closed and replaced after every mutation so waiters can
	// select on it.
	changed chan struct{}
	waiters []*waiter

	commander Commander
	room      RoomObserver
	bus       *event.Bus
	logger    *logging.Logger
}

// NewTracker creates a Tracker with an empty state and unset leader.
func NewTracker(cfg Config) *Tracker {
	defaults := DefaultConfig()
	if cfg.ProbeCommand == "" {
		cfg.ProbeCommand = defaults.ProbeCommand
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}

	return &Tracker{
		cfg:     cfg,
		matcher: match.Default(),
		changed: make(chan struct{}),
		logger:  logging.NopLogger(),
	}
}

// Config returns the tracker's probe settings.
func (t *Tracker) Config() Config {
	return t.cfg
}

// SetLogger sets the logger for the tracker.
func (t *Tracker) SetLogger(logger *logging.Logger) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// SetCommander sets where probe and add commands are sent.
func (t *Tracker) SetCommander(c Commander) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commander = c
}

// SetRoomObserver sets the room signal used by Broken.
func (t *Tracker) SetRoomObserver(r RoomObserver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.room = r
}

// SetBus sets the bus that receives change events. Events are published
// after the tracker's lock is released.
func (t *Tracker) SetBus(bus *event.Bus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bus = bus
}

// Dispatch applies one server line to the state. It returns true if any
// rule fired. Dispatch never fails; unrecognized lines are ignored.
func (t *Tracker) Dispatch(raw string) bool {
	l := newLine(t.matcher, raw)

	t.mu.Lock()
	before := t.state.Clone()
	fired := apply(&t.state, l)
	if t.resolveWaitersLocked(l) {
		fired = append(fired, "group_closed")
	}
	if len(fired) > 0 {
		t.broadcastLocked()
	}
	after := t.state.Clone()
	logger, bus := t.logger, t.bus
	t.mu.Unlock()

	if len(fired) == 0 {
		return false
	}

	logger.Debug("group transition",
		"rule", strings.Join(fired, ","),
		"kind", l.kind.String(),
		"members", len(after.Members),
		"leader", after.Leader.String(),
		"checked", after.Checked)
	publish(bus, diff(before, after, fired[len(fired)-1]))
	return true
}

// Clear empties the membership and resets Checked. Leader and status are
// left as they are.
func (t *Tracker) Clear() {
	t.mutate("clear", func(s *State) {
		s.clearMembers()
		s.Checked = false
	})
}

// mutate applies fn under the lock, wakes waiters and publishes the
// resulting events.
func (t *Tracker) mutate(rule string, fn func(s *State)) {
	t.mu.Lock()
	before := t.state.Clone()
	fn(&t.state)
	t.broadcastLocked()
	after := t.state.Clone()
	bus := t.bus
	t.mu.Unlock()

	publish(bus, diff(before, after, rule))
}

func (t *Tracker) broadcastLocked() {
	close(t.changed)
	t.changed = make(chan struct{})
}

func publish(bus *event.Bus, events []event.Event) {
	if bus == nil {
		return
	}
	bus.PublishAll(events)
}

// clearingRules drop the whole membership at once and are reported as a
// single cleared event instead of one leave per member.
var clearingRules = map[string]bool{
	"disband":           true,
	"indicator_removed": true,
	"clear":             true,
}

// diff derives change events from two states.
func diff(before, after State, rule string) []event.Event {
	var events []event.Event

	switch {
	case (rule == "member" || rule == "restore") && !sameMembers(before.Members, after.Members):
		events = append(events, event.NewRefreshedEvent(participants(after.Members)))
	case clearingRules[rule] && len(before.Members) > 0 && len(after.Members) == 0:
		events = append(events, event.NewClearedEvent(rule))
	default:
		for _, m := range after.Members {
			if !before.Includes(m.ID) {
				events = append(events, event.NewMemberJoinedEvent(m.participant(), rule))
			}
		}
		for _, m := range before.Members {
			if !after.Includes(m.ID) {
				events = append(events, event.NewMemberLeftEvent(m.participant(), rule))
			}
		}
	}

	if !before.Leader.Equal(after.Leader) {
		var p event.Participant
		if m, ok := after.Leader.Member(); ok {
			p = m.participant()
		}
		events = append(events, event.NewLeaderChangedEvent(after.Leader.Kind().String(), p))
	}
	if before.Status != after.Status {
		events = append(events, event.NewStatusChangedEvent(after.Status.String()))
	}
	if before.Checked != after.Checked {
		events = append(events, event.NewCheckedEvent(after.Checked))
	}
	return events
}

func sameMembers(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
