package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier, e.g. "group.member_joined".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Event type identifiers.
const (
	TypeMemberJoined   = "group.member_joined"
	TypeMemberLeft     = "group.member_left"
	TypeRefreshed      = "group.refreshed"
	TypeCleared        = "group.cleared"
	TypeLeaderChanged  = "group.leader_changed"
	TypeStatusChanged  = "group.status_changed"
	TypeChecked        = "group.checked"
	TypeProbeSent      = "group.probe_sent"
	TypeProbeCompleted = "group.probe_completed"
	TypeRoomChanged    = "room.changed"
)

// Participant identifies a game character in an event payload. It mirrors
// the group package's Member without importing it.
type Participant struct {
	ID   int64
	Noun string
	Name string
}

// -----------------------------------------------------------------------------
// Membership Events
// -----------------------------------------------------------------------------

// MemberJoinedEvent is emitted when a member is added to the tracked group.
type MemberJoinedEvent struct {
	baseEvent
	Member Participant
	Rule   string // dispatch rule that added the member
}

// NewMemberJoinedEvent creates a MemberJoinedEvent.
func NewMemberJoinedEvent(member Participant, rule string) MemberJoinedEvent {
	return MemberJoinedEvent{
		baseEvent: newBaseEvent(TypeMemberJoined),
		Member:    member,
		Rule:      rule,
	}
}

// MemberLeftEvent is emitted when a member is removed from the tracked group.
type MemberLeftEvent struct {
	baseEvent
	Member Participant
	Rule   string
}

// NewMemberLeftEvent creates a MemberLeftEvent.
func NewMemberLeftEvent(member Participant, rule string) MemberLeftEvent {
	return MemberLeftEvent{
		baseEvent: newBaseEvent(TypeMemberLeft),
		Member:    member,
		Rule:      rule,
	}
}

// RefreshedEvent is emitted when a full membership listing replaces the
// tracked members.
type RefreshedEvent struct {
	baseEvent
	Members []Participant
}

// NewRefreshedEvent creates a RefreshedEvent.
func NewRefreshedEvent(members []Participant) RefreshedEvent {
	return RefreshedEvent{
		baseEvent: newBaseEvent(TypeRefreshed),
		Members:   members,
	}
}

// ClearedEvent is emitted when all members are dropped at once.
type ClearedEvent struct {
	baseEvent
	Reason string // rule that cleared the group: "disband", "indicator_removed" or "clear"
}

// NewClearedEvent creates a ClearedEvent.
func NewClearedEvent(reason string) ClearedEvent {
	return ClearedEvent{
		baseEvent: newBaseEvent(TypeCleared),
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Leadership and Status Events
// -----------------------------------------------------------------------------

// LeaderChangedEvent is emitted when the tracked leader changes.
type LeaderChangedEvent struct {
	baseEvent
	Kind   string      // "self", "other", or "unset"
	Leader Participant // zero unless Kind is "other"
}

// NewLeaderChangedEvent creates a LeaderChangedEvent.
func NewLeaderChangedEvent(kind string, leader Participant) LeaderChangedEvent {
	return LeaderChangedEvent{
		baseEvent: newBaseEvent(TypeLeaderChanged),
		Kind:      kind,
		Leader:    leader,
	}
}

// StatusChangedEvent is emitted when the group's open/closed status changes.
type StatusChangedEvent struct {
	baseEvent
	Status string
}

// NewStatusChangedEvent creates a StatusChangedEvent.
func NewStatusChangedEvent(status string) StatusChangedEvent {
	return StatusChangedEvent{
		baseEvent: newBaseEvent(TypeStatusChanged),
		Status:    status,
	}
}

// CheckedEvent is emitted when the checked flag flips.
type CheckedEvent struct {
	baseEvent
	Checked bool
}

// NewCheckedEvent creates a CheckedEvent.
func NewCheckedEvent(checked bool) CheckedEvent {
	return CheckedEvent{
		baseEvent: newBaseEvent(TypeChecked),
		Checked:   checked,
	}
}

// -----------------------------------------------------------------------------
// Probe Events
// -----------------------------------------------------------------------------

// ProbeSentEvent is emitted when a status probe is sent to the server.
type ProbeSentEvent struct {
	baseEvent
	Command string
}

// NewProbeSentEvent creates a ProbeSentEvent.
func NewProbeSentEvent(command string) ProbeSentEvent {
	return ProbeSentEvent{
		baseEvent: newBaseEvent(TypeProbeSent),
		Command:   command,
	}
}

// ProbeCompletedEvent is emitted when a probe's wait ends, either because
// the status report arrived or because the deadline passed.
type ProbeCompletedEvent struct {
	baseEvent
	Confirmed bool
	Members   int
	Elapsed   time.Duration
}

// NewProbeCompletedEvent creates a ProbeCompletedEvent.
func NewProbeCompletedEvent(confirmed bool, members int, elapsed time.Duration) ProbeCompletedEvent {
	return ProbeCompletedEvent{
		baseEvent: newBaseEvent(TypeProbeCompleted),
		Confirmed: confirmed,
		Members:   members,
		Elapsed:   elapsed,
	}
}

// -----------------------------------------------------------------------------
// Room Events
// -----------------------------------------------------------------------------

// RoomChangedEvent is emitted when the set of visible players changes.
type RoomChangedEvent struct {
	baseEvent
	Players []string // nouns
}

// NewRoomChangedEvent creates a RoomChangedEvent.
func NewRoomChangedEvent(players []string) RoomChangedEvent {
	return RoomChangedEvent{
		baseEvent: newBaseEvent(TypeRoomChanged),
		Players:   players,
	}
}
