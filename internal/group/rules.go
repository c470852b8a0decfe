package group

import (
	"github.com/Iron-Ham/groupsense/internal/group/match"
)

// line is one input line with its classification. Entities are extracted
// on first use so unmatched lines never pay for it.
type line struct {
	raw      string
	kind     match.Kind
	status   match.Status
	matched  bool
	entities []Member
	parsed   bool
}

func newLine(m *match.Matcher, raw string) *line {
	kind, status, ok := m.Classify(raw)
	return &line{raw: raw, kind: kind, status: status, matched: ok}
}

func (l *line) members() []Member {
	if !l.parsed {
		refs := match.Extract(l.raw)
		l.entities = make([]Member, 0, len(refs))
		for _, ref := range refs {
			l.entities = append(l.entities, MemberFromRef(ref))
		}
		l.parsed = true
	}
	return l.entities
}

// entity returns the i-th entity in the line.
func (l *line) entity(i int) (Member, bool) {
	ms := l.members()
	if i >= len(ms) {
		return Member{}, false
	}
	return ms[i], true
}

func (l *line) is(kinds ...match.Kind) bool {
	if !l.matched {
		return false
	}
	for _, k := range kinds {
		if l.kind == k {
			return true
		}
	}
	return false
}

// rule is one entry of the dispatch table. A rule whose applies predicate
// holds runs apply; unless it is marked passthrough, evaluation stops there.
type rule struct {
	name        string
	passthrough bool
	applies     func(l *line) bool
	apply       func(s *State, l *line)
}

// rules is evaluated top to bottom for every line. The order is significant:
// substring overrides come first because the server embeds them in text that
// may also match a template.
var rules = []rule{
	{
		name:    "given_leadership",
		applies: func(l *line) bool { return match.ContainsGivenLeadership(l.raw) },
		apply: func(s *State, _ *line) {
			s.Leader = Self()
		},
	},
	{
		name:    "indicator_removed",
		applies: func(l *line) bool { return match.ContainsIndicatorRemoved(l.raw) },
		apply: func(s *State, _ *line) {
			s.Leader = Self()
			s.clearMembers()
		},
	},
	{
		name:        "leading",
		passthrough: true,
		applies:     func(l *line) bool { return match.ContainsLeading(l.raw) },
		apply: func(s *State, _ *line) {
			s.Leader = Self()
		},
	},
	{
		name:        "grouped_with",
		passthrough: true,
		applies:     func(l *line) bool { return match.ContainsGroupedWith(l.raw) },
		apply: func(s *State, l *line) {
			if leader, ok := l.entity(0); ok {
				s.Leader = Other(leader)
			}
		},
	},
	{
		name:    "disband",
		applies: func(l *line) bool { return l.is(match.KindNoGroup, match.KindDisband) },
		apply: func(s *State, _ *line) {
			s.Leader = Self()
			s.clearMembers()
		},
	},
	{
		name:    "status",
		applies: func(l *line) bool { return l.is(match.KindStatus) },
		apply: func(s *State, l *line) {
			s.Status = l.status
			s.Checked = true
		},
	},
	{
		name:    "gave_leader_away",
		applies: func(l *line) bool { return l.is(match.KindGaveLeaderAway) },
		apply: func(s *State, l *line) {
			if m, ok := l.entity(0); ok {
				s.push(m)
				s.Leader = Other(m)
			}
		},
	},
	{
		name:    "new_group",
		applies: func(l *line) bool { return l.is(match.KindAddedToNewGroup, match.KindJoinedNewGroup) },
		apply: func(s *State, l *line) {
			if m, ok := l.entity(0); ok {
				s.Checked = false
				s.push(m)
				s.Leader = Other(m)
			}
		},
	},
	{
		name:    "swap_leader",
		applies: func(l *line) bool { return l.is(match.KindSwapLeader) },
		apply: func(s *State, l *line) {
			prev, ok1 := l.entity(0)
			next, ok2 := l.entity(1)
			if !ok1 || !ok2 {
				return
			}
			if s.tracked(prev.ID) || s.tracked(next.ID) {
				s.push(prev)
				s.push(next)
			}
			s.Leader = Other(next)
		},
	},
	{
		name:    "leader_added_member",
		applies: func(l *line) bool { return l.is(match.KindLeaderAddedMember) },
		apply: func(s *State, l *line) {
			leader, ok1 := l.entity(0)
			added, ok2 := l.entity(1)
			if ok1 && ok2 && s.Leader.Is(leader.ID) {
				s.push(added)
			}
		},
	},
	{
		name:    "leader_removed_member",
		applies: func(l *line) bool { return l.is(match.KindLeaderRemovedMember) },
		apply: func(s *State, l *line) {
			leader, ok1 := l.entity(0)
			removed, ok2 := l.entity(1)
			if ok1 && ok2 && s.Leader.Is(leader.ID) {
				s.remove(removed.ID)
			}
		},
	},
	{
		name:    "join",
		applies: func(l *line) bool { return l.is(match.KindJoin, match.KindAdd, match.KindNoop) },
		apply: func(s *State, l *line) {
			for _, m := range l.members() {
				s.push(m)
			}
		},
	},
	{
		name:    "member",
		applies: func(l *line) bool { return l.is(match.KindMember) },
		apply: func(s *State, l *line) {
			s.replace(l.members())
		},
	},
	{
		name:    "hold_first",
		applies: func(l *line) bool { return l.matched && l.kind.Person() == 1 },
		apply: func(s *State, l *line) {
			if m, ok := l.entity(0); ok {
				s.push(m)
			}
		},
	},
	{
		name:    "hold_second",
		applies: func(l *line) bool { return l.matched && l.kind.Person() == 2 },
		apply: func(s *State, l *line) {
			if m, ok := l.entity(0); ok {
				s.Checked = false
				s.push(m)
				s.Leader = Other(m)
			}
		},
	},
	{
		name:    "hold_third",
		applies: func(l *line) bool { return l.matched && l.kind.Person() == 3 },
		apply: func(s *State, l *line) {
			holder, ok1 := l.entity(0)
			held, ok2 := l.entity(1)
			if ok1 && ok2 && s.Leader.Is(holder.ID) {
				s.push(held)
			}
		},
	},
	{
		name:    "other_joined_group",
		applies: func(l *line) bool { return l.is(match.KindOtherJoinedGroup) },
		apply: func(s *State, l *line) {
			joiner, ok1 := l.entity(0)
			leader, ok2 := l.entity(1)
			if ok1 && ok2 && s.Leader.Is(leader.ID) {
				s.push(joiner)
			}
		},
	},
	{
		name:    "leave",
		applies: func(l *line) bool { return l.is(match.KindLeave, match.KindRemove) },
		apply: func(s *State, l *line) {
			for _, m := range l.members() {
				s.remove(m.ID)
			}
		},
	},
}

// apply runs the rule table against one line and returns the names of the
// rules that fired, in order. It never fails: lines that match nothing leave
// the state untouched.
func apply(s *State, l *line) []string {
	var fired []string
	for i := range rules {
		r := &rules[i]
		if !r.applies(l) {
			continue
		}
		r.apply(s, l)
		fired = append(fired, r.name)
		if !r.passthrough {
			break
		}
	}
	return fired
}
