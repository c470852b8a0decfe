package group

import (
	"context"
	"strings"
)

// Members returns a copy of the membership, probing first if the state has
// not been checked.
func (t *Tracker) Members(ctx context.Context) []Member {
	t.MaybeCheck(ctx)
	return t.snapshotMembers()
}

// Open reports whether the group is open, probing first if needed.
func (t *Tracker) Open(ctx context.Context) bool {
	t.MaybeCheck(ctx)
	return t.Snapshot().Status == StatusOpen
}

// Closed reports whether the group is closed, probing first if needed.
func (t *Tracker) Closed(ctx context.Context) bool {
	t.MaybeCheck(ctx)
	return t.Snapshot().Status == StatusClosed
}

// IsLeader returns true only when the controlling character leads.
// An unset leader is not treated as self.
func (t *Tracker) IsLeader() bool {
	return t.Leader().IsSelf()
}

// Leader returns the current leader.
func (t *Tracker) Leader() Leader {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Leader
}

// Checked reports whether a status report has confirmed the state.
func (t *Tracker) Checked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Checked
}

// Snapshot returns a deep copy of the state without probing.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// The helpers below read the current snapshot and never probe.

// Size returns the number of tracked members.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.state.Members)
}

// Empty returns true when no members are tracked.
func (t *Tracker) Empty() bool {
	return t.Size() == 0
}

// IDs returns the tracked member ids in membership order.
func (t *Tracker) IDs() []int64 {
	members := t.snapshotMembers()
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// Nouns returns the tracked member nouns in membership order.
func (t *Tracker) Nouns() []string {
	members := t.snapshotMembers()
	nouns := make([]string, len(members))
	for i, m := range members {
		nouns[i] = m.Noun
	}
	return nouns
}

// Includes returns true if every given member is tracked, by id.
func (t *Tracker) Includes(members ...Member) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range members {
		if !t.state.Includes(m.ID) {
			return false
		}
	}
	return true
}

// String summarizes the state, e.g. "leader=self status=open checked=true members=[Foo (#5)]".
func (t *Tracker) String() string {
	s := t.Snapshot()

	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.String()
	}

	var b strings.Builder
	b.WriteString("leader=")
	b.WriteString(s.Leader.String())
	b.WriteString(" status=")
	b.WriteString(s.Status.String())
	if s.Checked {
		b.WriteString(" checked=true")
	} else {
		b.WriteString(" checked=false")
	}
	b.WriteString(" members=[")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("]")
	return b.String()
}
