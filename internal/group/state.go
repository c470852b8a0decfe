package group

import (
	"slices"

	"github.com/Iron-Ham/groupsense/internal/group/match"
)

// Status is the group's open/closed status.
type Status = match.Status

// Status values.
const (
	StatusUnknown = match.StatusUnknown
	StatusOpen    = match.StatusOpen
	StatusClosed  = match.StatusClosed
)

// State is a snapshot of everything known about the group.
//
// Checked stays false until a status report is parsed, and is reset when the
// character is pulled into a different group. Membership recorded while
// Checked is false is provisional.
type State struct {
	Members []Member
	Leader  Leader
	Status  Status
	Checked bool
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	s.Members = slices.Clone(s.Members)
	return s
}

// Includes returns true if a member with the given id is tracked.
func (s *State) Includes(id int64) bool {
	return s.index(id) >= 0
}

func (s *State) index(id int64) int {
	return slices.IndexFunc(s.Members, func(m Member) bool { return m.ID == id })
}

// push adds m unless its id is already present. The first recorded
// attributes win.
func (s *State) push(m Member) bool {
	if s.Includes(m.ID) {
		return false
	}
	s.Members = append(s.Members, m)
	return true
}

// remove deletes the member with the given id, if present.
func (s *State) remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.Members = slices.Delete(s.Members, i, i+1)
	return true
}

// replace swaps in a new membership, dropping duplicate ids.
func (s *State) replace(members []Member) {
	s.Members = make([]Member, 0, len(members))
	for _, m := range members {
		s.push(m)
	}
}

func (s *State) clearMembers() {
	s.Members = nil
}

// tracked reports whether id is the leader or a member.
func (s *State) tracked(id int64) bool {
	return s.Leader.Is(id) || s.Includes(id)
}
