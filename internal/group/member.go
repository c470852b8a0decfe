package group

import (
	"strconv"

	"github.com/Iron-Ham/groupsense/internal/event"
	"github.com/Iron-Ham/groupsense/internal/group/match"
)

// Member is a tracked group participant. ID is the server-assigned identity
// and may be negative; Noun and Name are informational.
type Member struct {
	ID   int64  `yaml:"id" json:"id"`
	Noun string `yaml:"noun" json:"noun"`
	Name string `yaml:"name" json:"name"`
}

// MemberFromRef converts an extracted entity reference into a Member.
func MemberFromRef(ref match.EntityRef) Member {
	return Member{ID: ref.ID, Noun: ref.Noun, Name: match.NormalizeName(ref.Name)}
}

// String renders the member as "Name (#ID)".
func (m Member) String() string {
	name := m.Name
	if name == "" {
		name = m.Noun
	}
	return name + " (#" + strconv.FormatInt(m.ID, 10) + ")"
}

func (m Member) participant() event.Participant {
	return event.Participant{ID: m.ID, Noun: m.Noun, Name: m.Name}
}

func participants(members []Member) []event.Participant {
	out := make([]event.Participant, len(members))
	for i, m := range members {
		out[i] = m.participant()
	}
	return out
}

// LeaderKind distinguishes the three leader states.
type LeaderKind int

const (
	// LeaderUnset means leadership has not been observed yet.
	LeaderUnset LeaderKind = iota
	// LeaderSelf means the controlling character leads.
	LeaderSelf
	// LeaderOther means another tracked character leads.
	LeaderOther
)

// String returns "unset", "self" or "other".
func (k LeaderKind) String() string {
	switch k {
	case LeaderSelf:
		return "self"
	case LeaderOther:
		return "other"
	default:
		return "unset"
	}
}

// Leader is the group's leader: unset, the controlling character, or
// another member. The zero value is unset.
type Leader struct {
	kind   LeaderKind
	member Member
}

// Self returns the leader value for the controlling character.
func Self() Leader {
	return Leader{kind: LeaderSelf}
}

// Other returns the leader value for another character.
func Other(m Member) Leader {
	return Leader{kind: LeaderOther, member: m}
}

// Kind returns which of the three states the leader is in.
func (l Leader) Kind() LeaderKind { return l.kind }

// IsSelf returns true when the controlling character leads.
func (l Leader) IsSelf() bool { return l.kind == LeaderSelf }

// IsUnset returns true when no leader has been observed.
func (l Leader) IsUnset() bool { return l.kind == LeaderUnset }

// Member returns the leading member when another character leads.
func (l Leader) Member() (Member, bool) {
	if l.kind != LeaderOther {
		return Member{}, false
	}
	return l.member, true
}

// Is reports whether the leader is the other character with the given id.
func (l Leader) Is(id int64) bool {
	return l.kind == LeaderOther && l.member.ID == id
}

// Equal compares leaders by kind and, for other characters, by id.
func (l Leader) Equal(o Leader) bool {
	if l.kind != o.kind {
		return false
	}
	return l.kind != LeaderOther || l.member.ID == o.member.ID
}

// String returns "self", "unset" or the leading member's description.
func (l Leader) String() string {
	if l.kind == LeaderOther {
		return l.member.String()
	}
	return l.kind.String()
}
