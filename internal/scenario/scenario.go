// Package scenario replays recorded game output against a fresh tracker and
// checks the resulting group state.
//
// A scenario file is YAML and may hold several documents:
//
//	name: grouped-with
//	lines:
//	  - You are grouped with <a exist="5" noun="Foo">Foo</a>.
//	expect:
//	  members: [5]
//	  leader: 5
//	  status: unknown
//	  checked: false
//
// Every expect field is optional; omitted fields are not checked. leader is
// "self", "unset", or the leader's exist id.
package scenario

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/group"
	"github.com/Iron-Ham/groupsense/internal/logging"
	"github.com/Iron-Ham/groupsense/internal/room"
)

// Scenario is one replayable script.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Lines       []string `yaml:"lines"`
	Expect      Expect   `yaml:"expect"`

	// Source is the file the scenario was loaded from.
	Source string `yaml:"-"`
}

// Expect is the state a scenario must end in.
type Expect struct {
	Members []int64 `yaml:"members,omitempty"`
	Leader  string  `yaml:"leader,omitempty"`
	Status  string  `yaml:"status,omitempty"`
	Checked *bool   `yaml:"checked,omitempty"`
	Broken  *bool   `yaml:"broken,omitempty"`
	Size    *int    `yaml:"size,omitempty"`
}

// Validate reports structural problems that make a scenario unrunnable.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.NewScenarioError("missing name", errors.ErrScenarioInvalid).
			WithDetails("source " + s.Source)
	}
	if len(s.Lines) == 0 {
		return errors.NewScenarioError("no lines", errors.ErrScenarioInvalid).WithScenario(s.Name)
	}
	switch s.Expect.Leader {
	case "", "self", "unset":
	default:
		if _, err := strconv.ParseInt(s.Expect.Leader, 10, 64); err != nil {
			return errors.NewScenarioError("leader must be self, unset, or an id", errors.ErrScenarioInvalid).
				WithScenario(s.Name).
				WithDetails("leader " + strconv.Quote(s.Expect.Leader))
		}
	}
	switch s.Expect.Status {
	case "", "open", "closed", "unknown":
	default:
		return errors.NewScenarioError("status must be open, closed, or unknown", errors.ErrScenarioInvalid).
			WithScenario(s.Name).
			WithDetails("status " + strconv.Quote(s.Expect.Status))
	}
	return nil
}

// Result is the outcome of running one scenario.
type Result struct {
	Scenario Scenario
	State    group.State
	Broken   bool
	// Fired counts lines that changed the tracker.
	Fired int
	Err   error
}

// Passed reports whether the scenario met its expectations.
func (r Result) Passed() bool { return r.Err == nil }

// Runner replays scenarios.
type Runner struct {
	cfg    group.Config
	logger *logging.Logger
}

// NewRunner returns a Runner whose trackers use cfg.
func NewRunner(cfg group.Config) *Runner {
	return &Runner{cfg: cfg, logger: logging.NopLogger()}
}

// SetLogger sets the logger handed to each tracker. A nil logger is ignored.
func (r *Runner) SetLogger(logger *logging.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Run feeds the scenario's lines to a new tracker and room watcher and
// compares the final state with the expectation.
func (r *Runner) Run(s Scenario) Result {
	res := Result{Scenario: s}
	if err := s.Validate(); err != nil {
		res.Err = err
		return res
	}

	logger := r.logger.With("scenario", s.Name)
	tracker := group.NewTracker(r.cfg)
	tracker.SetLogger(logger)
	watcher := room.NewWatcher()
	watcher.SetLogger(logger)
	tracker.SetRoomObserver(watcher)

	for _, line := range s.Lines {
		watcher.Dispatch(line)
		if tracker.Dispatch(line) {
			res.Fired++
		}
	}

	res.State = tracker.Snapshot()
	res.Broken = tracker.Broken()

	if details := compare(s.Expect, res.State, res.Broken); len(details) > 0 {
		res.Err = errors.NewScenarioError("expectation not met", errors.ErrScenarioMismatch).
			WithScenario(s.Name).
			WithStep(len(s.Lines)).
			WithDetails(details...)
	}
	return res
}

// RunAll runs every scenario in order.
func (r *Runner) RunAll(scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, r.Run(s))
	}
	return results
}

func compare(want Expect, got group.State, broken bool) []string {
	var details []string

	if want.Members != nil {
		ids := make([]int64, len(got.Members))
		for i, m := range got.Members {
			ids[i] = m.ID
		}
		if !slices.Equal(ids, want.Members) {
			details = append(details, fmt.Sprintf("members: got %v, want %v", ids, want.Members))
		}
	}
	if want.Size != nil && len(got.Members) != *want.Size {
		details = append(details, fmt.Sprintf("size: got %d, want %d", len(got.Members), *want.Size))
	}
	if want.Leader != "" && !leaderMatches(want.Leader, got.Leader) {
		details = append(details, fmt.Sprintf("leader: got %s, want %s", describeLeader(got.Leader), want.Leader))
	}
	if want.Status != "" && got.Status.String() != want.Status {
		details = append(details, fmt.Sprintf("status: got %s, want %s", got.Status, want.Status))
	}
	if want.Checked != nil && got.Checked != *want.Checked {
		details = append(details, fmt.Sprintf("checked: got %t, want %t", got.Checked, *want.Checked))
	}
	if want.Broken != nil && broken != *want.Broken {
		details = append(details, fmt.Sprintf("broken: got %t, want %t", broken, *want.Broken))
	}
	return details
}

func leaderMatches(want string, got group.Leader) bool {
	switch want {
	case "self":
		return got.IsSelf()
	case "unset":
		return got.IsUnset()
	}
	id, err := strconv.ParseInt(want, 10, 64)
	return err == nil && got.Is(id)
}

func describeLeader(l group.Leader) string {
	if m, ok := l.Member(); ok {
		return strconv.FormatInt(m.ID, 10)
	}
	return l.Kind().String()
}
