package match

// Kind identifies which server template a line matched.
type Kind int

const (
	// KindNone means the line matched no grouping template. Most game output
	// classifies as KindNone.
	KindNone Kind = iota

	KindJoin   // X joins your group.
	KindLeave  // X leaves your group.
	KindAdd    // You add X to your group.
	KindRemove // You remove X from the group.
	KindNoop   // But X is already a member of your group!

	KindDisband // You disband your group.
	KindStatus  // Your group status is currently open|closed.
	KindNoGroup // You are not currently in a group.
	KindMember  // You are leading|grouped with A, B and C.

	KindGaveLeaderAway      // You designate X as the new leader of the group.
	KindSwapLeader          // X designates Y as the new leader of the group.
	KindAddedToNewGroup     // X adds you to his group.
	KindJoinedNewGroup      // You join X's group.
	KindLeaderAddedMember   // X adds Y to his group.
	KindLeaderRemovedMember // X removes Y from the group.

	// Hand-holding, first person: you take X's hand.
	KindHoldFirstReserved
	KindHoldFirstNeutral
	KindHoldFirstFriendly
	KindHoldFirstWarm

	// Hand-holding, second person: X takes your hand.
	KindHoldSecondReserved
	KindHoldSecondNeutral
	KindHoldSecondFriendly
	KindHoldSecondWarm

	// Hand-holding, third person: X takes Y's hand.
	KindHoldThirdReserved
	KindHoldThirdNeutral
	KindHoldThirdFriendly
	KindHoldThirdWarm

	KindOtherJoinedGroup // Y joins X's group.
	KindGroupClosed      // X's group status is closed.
)

var kindNames = map[Kind]string{
	KindNone:                "none",
	KindJoin:                "join",
	KindLeave:               "leave",
	KindAdd:                 "add",
	KindRemove:              "remove",
	KindNoop:                "noop",
	KindDisband:             "disband",
	KindStatus:              "status",
	KindNoGroup:             "no_group",
	KindMember:              "member",
	KindGaveLeaderAway:      "gave_leader_away",
	KindSwapLeader:          "swap_leader",
	KindAddedToNewGroup:     "added_to_new_group",
	KindJoinedNewGroup:      "joined_new_group",
	KindLeaderAddedMember:   "leader_added_member",
	KindLeaderRemovedMember: "leader_removed_member",
	KindHoldFirstReserved:   "hold_first_reserved",
	KindHoldFirstNeutral:    "hold_first_neutral",
	KindHoldFirstFriendly:   "hold_first_friendly",
	KindHoldFirstWarm:       "hold_first_warm",
	KindHoldSecondReserved:  "hold_second_reserved",
	KindHoldSecondNeutral:   "hold_second_neutral",
	KindHoldSecondFriendly:  "hold_second_friendly",
	KindHoldSecondWarm:      "hold_second_warm",
	KindHoldThirdReserved:   "hold_third_reserved",
	KindHoldThirdNeutral:    "hold_third_neutral",
	KindHoldThirdFriendly:   "hold_third_friendly",
	KindHoldThirdWarm:       "hold_third_warm",
	KindOtherJoinedGroup:    "other_joined_group",
	KindGroupClosed:         "group_closed",
}

// String returns the snake_case name used in logs and scenario files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Person reports the grammatical person of a hand-holding kind (1, 2 or 3),
// or 0 for every other kind.
func (k Kind) Person() int {
	switch {
	case k >= KindHoldFirstReserved && k <= KindHoldFirstWarm:
		return 1
	case k >= KindHoldSecondReserved && k <= KindHoldSecondWarm:
		return 2
	case k >= KindHoldThirdReserved && k <= KindHoldThirdWarm:
		return 3
	default:
		return 0
	}
}

// IsHold returns true for the twelve hand-holding kinds.
func (k Kind) IsHold() bool {
	return k.Person() != 0
}

// Status is the open/closed value captured from a status report.
type Status int

const (
	// StatusUnknown means no status report has been seen.
	StatusUnknown Status = iota
	StatusOpen
	StatusClosed
)

// String returns "open", "closed" or "unknown".
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ParseStatus is the inverse of Status.String. Unrecognized values map to
// StatusUnknown.
func ParseStatus(s string) Status {
	switch s {
	case "open":
		return StatusOpen
	case "closed":
		return StatusClosed
	default:
		return StatusUnknown
	}
}
