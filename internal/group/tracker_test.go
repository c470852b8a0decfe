package group

import (
	"bytes"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/groupsense/internal/event"
	"github.com/Iron-Ham/groupsense/internal/logging"
)

func TestNewTracker_Defaults(t *testing.T) {
	tr := NewTracker(Config{})

	cfg := tr.Config()
	if cfg.ProbeCommand != "group" {
		t.Errorf("ProbeCommand = %q, want group", cfg.ProbeCommand)
	}
	if cfg.ProbeTimeout != 3*time.Second {
		t.Errorf("ProbeTimeout = %v, want 3s", cfg.ProbeTimeout)
	}

	s := tr.Snapshot()
	if !s.Leader.IsUnset() || s.Status != StatusUnknown || s.Checked || len(s.Members) != 0 {
		t.Errorf("initial state = %+v", s)
	}
	if tr.IsLeader() {
		t.Error("IsLeader() should be false while the leader is unset")
	}
}

func TestScenario_GroupedWith(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	tr.Dispatch("You are grouped with <a exist=\"5\" noun=\"Foo\">Foo</a>.\n")

	s := tr.Snapshot()
	want := Member{ID: 5, Noun: "Foo", Name: "Foo"}
	leader, ok := s.Leader.Member()
	if !ok || leader != want {
		t.Errorf("leader = %s, want %s", s.Leader, want)
	}
	if len(s.Members) != 1 || s.Members[0] != want {
		t.Errorf("members = %v, want [%s]", s.Members, want)
	}
}

func TestScenario_JoinThenLeave(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	tr.Dispatch("<a exist=\"9\" noun=\"Bar\">Bar</a> joins your group.\n")
	tr.Dispatch("<a exist=\"9\" noun=\"Bar\">Bar</a> leaves your group.\n")

	if got := tr.Snapshot().Members; len(got) != 0 {
		t.Errorf("members = %v, want none", got)
	}
}

func TestScenario_StatusOpen(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	tr.Dispatch("Your group status is currently open.\n")

	s := tr.Snapshot()
	if s.Status != StatusOpen {
		t.Errorf("status = %s, want open", s.Status)
	}
	if !s.Checked {
		t.Error("checked = false, want true")
	}
}

func TestTracker_DisbandLeavesSelfLeaderAndNoMembers(t *testing.T) {
	for _, line := range []string{"You disband your group.", "You are not currently in a group."} {
		tr := trackerWith(State{Members: []Member{foo, bar}, Leader: Other(foo)})
		tr.Dispatch(line)

		s := tr.Snapshot()
		if len(s.Members) != 0 || !s.Leader.IsSelf() {
			t.Errorf("after %q: state = %+v", line, s)
		}
	}
}

func TestTracker_Clear(t *testing.T) {
	tr := trackerWith(State{Members: []Member{foo}, Leader: Other(foo), Status: StatusClosed, Checked: true})

	tr.Clear()

	s := tr.Snapshot()
	if len(s.Members) != 0 || s.Checked {
		t.Errorf("Clear() left members=%v checked=%v", s.Members, s.Checked)
	}
	if !s.Leader.Is(foo.ID) || s.Status != StatusClosed {
		t.Errorf("Clear() should keep leader and status, got %s/%s", s.Leader, s.Status)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	tr := trackerWith(State{Members: []Member{foo}})

	s := tr.Snapshot()
	s.Members[0].Name = "Mutated"
	s.Members = append(s.Members, bar)

	again := tr.Snapshot()
	if len(again.Members) != 1 || again.Members[0].Name != "Foo" {
		t.Errorf("snapshot mutation leaked into tracker: %v", again.Members)
	}
}

func collect(bus *event.Bus) func() []event.Event {
	var mu sync.Mutex
	var got []event.Event
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	})
	return func() []event.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]event.Event(nil), got...)
	}
}

func types(events []event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}

func TestDispatch_PublishesEvents(t *testing.T) {
	tests := []struct {
		name  string
		start State
		line  string
		want  []string
	}{
		{
			name: "join",
			line: ref(bar) + " joins your group.",
			want: []string{event.TypeMemberJoined},
		},
		{
			name:  "leave",
			start: State{Members: []Member{bar}},
			line:  ref(bar) + " leaves your group.",
			want:  []string{event.TypeMemberLeft},
		},
		{
			name:  "duplicate join is silent",
			start: State{Members: []Member{bar}},
			line:  ref(bar) + " joins your group.",
			want:  nil,
		},
		{
			name:  "disband clears",
			start: State{Members: []Member{bar, baz}, Leader: Other(foo)},
			line:  "You disband your group.",
			want:  []string{event.TypeCleared, event.TypeLeaderChanged},
		},
		{
			name:  "member listing refreshes",
			start: State{Members: []Member{qux}, Leader: Self()},
			line:  "You are leading " + ref(bar) + ".",
			want:  []string{event.TypeRefreshed},
		},
		{
			name: "status",
			line: "Your group status is currently closed.",
			want: []string{event.TypeStatusChanged, event.TypeChecked},
		},
		{
			name:  "new group",
			start: State{Leader: Self(), Checked: true},
			line:  ref(foo) + " adds you to his group.",
			want:  []string{event.TypeMemberJoined, event.TypeLeaderChanged, event.TypeChecked},
		},
		{
			name: "unmatched line",
			line: "You feel refreshed.",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := trackerWith(tc.start)
			bus := event.NewBus()
			tr.SetBus(bus)
			got := collect(bus)

			tr.Dispatch(tc.line)

			if gotTypes := types(got()); !slices.Equal(gotTypes, tc.want) {
				t.Errorf("events = %v, want %v", gotTypes, tc.want)
			}
		})
	}
}

func TestDispatch_LeaderChangedPayload(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	bus := event.NewBus()
	tr.SetBus(bus)

	var got event.LeaderChangedEvent
	bus.Subscribe(event.TypeLeaderChanged, func(e event.Event) {
		got = e.(event.LeaderChangedEvent)
	})

	tr.Dispatch("You designate " + ref(bar) + " as the new leader of the group.")

	if got.Kind != "other" || got.Leader.ID != bar.ID || got.Leader.Noun != "Bar" {
		t.Errorf("LeaderChangedEvent = %+v", got)
	}
}

func TestDispatch_HandlerMayQueryTracker(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	bus := event.NewBus()
	tr.SetBus(bus)

	var size int
	bus.Subscribe(event.TypeMemberJoined, func(event.Event) {
		size = tr.Size()
	})

	done := make(chan struct{})
	go func() {
		tr.Dispatch(ref(bar) + " joins your group.")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch deadlocked when a handler read the tracker")
	}
	if size != 1 {
		t.Errorf("handler saw size %d, want 1", size)
	}
}

func TestDispatch_LogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(DefaultConfig())
	tr.SetLogger(logging.NewWriterLogger(&buf, logging.LevelDebug))

	tr.Dispatch(ref(bar) + " joins your group.")
	tr.Dispatch("nothing to see")

	out := buf.String()
	if strings.Count(out, "group transition") != 1 {
		t.Errorf("expected one transition log line, got %q", out)
	}
	if !strings.Contains(out, `"rule":"join"`) {
		t.Errorf("transition log missing rule: %q", out)
	}
}

func TestSetLogger_Nil(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.SetLogger(nil)
	tr.Dispatch(ref(bar) + " joins your group.")
}

func TestDispatch_Concurrent(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			tr.Dispatch(tag(int64(i), "M") + " joins your group.")
		})
		wg.Go(func() {
			_ = tr.Snapshot()
			_ = tr.IDs()
		})
	}
	wg.Wait()

	if tr.Size() != 50 {
		t.Errorf("Size() = %d, want 50", tr.Size())
	}
}
