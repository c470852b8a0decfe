package match

import (
	"fmt"
	"regexp"
	"testing"
)

func ent(id int64, name string) string {
	return fmt.Sprintf(`<a exist="%d" noun="%s">%s</a>`, id, name, name)
}

var (
	foo = ent(5, "Foo")
	bar = ent(9, "Bar")
	baz = ent(-12, "Baz")
)

// samples holds one representative server line per kind.
var samples = []struct {
	kind Kind
	line string
}{
	{KindJoin, bar + " joins your group."},
	{KindLeave, bar + " leaves your group."},
	{KindAdd, "You add " + bar + " to your group."},
	{KindRemove, "You remove " + bar + " from the group."},
	{KindNoop, "But " + bar + " is already a member of your group!"},
	{KindDisband, "You disband your group."},
	{KindStatus, "Your group status is currently open."},
	{KindNoGroup, "You are not currently in a group."},
	{KindMember, "You are grouped with " + foo + ", " + bar + " and " + baz + "."},
	{KindGaveLeaderAway, "You designate " + bar + " as the new leader of the group."},
	{KindSwapLeader, foo + " designates " + bar + " as the new leader of the group."},
	{KindAddedToNewGroup, foo + " adds you to her group."},
	{KindJoinedNewGroup, "You join " + foo + "'s group."},
	{KindLeaderAddedMember, foo + " adds " + bar + " to his group."},
	{KindLeaderRemovedMember, foo + " removes " + bar + " from the group."},
	{KindHoldFirstReserved, "You reach out and hold " + foo + "'s hand."},
	{KindHoldFirstNeutral, "You gently take hold of " + foo + "'s hand."},
	{KindHoldFirstFriendly, "You grab " + foo + "'s hand."},
	{KindHoldFirstWarm, "You clasp " + foo + "'s hand tenderly."},
	{KindHoldSecondReserved, foo + " reaches out and holds your hand."},
	{KindHoldSecondNeutral, foo + " gently takes hold of your hand."},
	{KindHoldSecondFriendly, foo + " grabs your hand."},
	{KindHoldSecondWarm, foo + " clasps your hand tenderly."},
	{KindHoldThirdReserved, foo + " reaches out and holds " + bar + "'s hand."},
	{KindHoldThirdNeutral, foo + " gently takes hold of " + bar + "'s hand."},
	{KindHoldThirdFriendly, foo + " grabs " + bar + "'s hand."},
	{KindHoldThirdWarm, foo + " clasps " + bar + "'s hand tenderly."},
	{KindOtherJoinedGroup, bar + " joins " + foo + "'s group."},
	{KindGroupClosed, bar + "'s group status is closed."},
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNone, "none"},
		{KindJoin, "join"},
		{KindLeaderRemovedMember, "leader_removed_member"},
		{KindHoldThirdWarm, "hold_third_warm"},
		{KindOtherJoinedGroup, "other_joined_group"},
		{Kind(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestKind_Person(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindJoin, 0},
		{KindHoldFirstReserved, 1},
		{KindHoldFirstWarm, 1},
		{KindHoldSecondNeutral, 2},
		{KindHoldThirdFriendly, 3},
		{KindOtherJoinedGroup, 0},
	}

	for _, tc := range tests {
		if got := tc.kind.Person(); got != tc.want {
			t.Errorf("%s.Person() = %d, want %d", tc.kind, got, tc.want)
		}
		if got := tc.kind.IsHold(); got != (tc.want != 0) {
			t.Errorf("%s.IsHold() = %v", tc.kind, got)
		}
	}
}

func TestStatus_RoundTrip(t *testing.T) {
	for _, s := range []Status{StatusUnknown, StatusOpen, StatusClosed} {
		if got := ParseStatus(s.String()); got != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if got := ParseStatus("ajar"); got != StatusUnknown {
		t.Errorf("ParseStatus(ajar) = %v, want unknown", got)
	}
}

func TestMatcher_Classify(t *testing.T) {
	m := NewMatcher()

	for _, tc := range samples {
		t.Run(tc.kind.String(), func(t *testing.T) {
			kind, _, ok := m.Classify(tc.line)
			if !ok {
				t.Fatalf("Classify(%q) matched nothing", tc.line)
			}
			if kind != tc.kind {
				t.Errorf("Classify(%q) = %s, want %s", tc.line, kind, tc.kind)
			}
		})
	}
}

func TestMatcher_EveryKindHasSample(t *testing.T) {
	covered := make(map[Kind]bool)
	for _, s := range samples {
		covered[s.kind] = true
	}
	for _, tmpl := range templates {
		if !covered[tmpl.kind] {
			t.Errorf("no sample line for %s", tmpl.kind)
		}
	}
}

// Each sample must be matched by its own template and by no other, so the
// combined alternation never depends on table order.
func TestTemplates_MutuallyExclusive(t *testing.T) {
	compiled := make(map[Kind]*regexp.Regexp, len(templates))
	for _, tmpl := range templates {
		compiled[tmpl.kind] = regexp.MustCompile(expand(tmpl.pattern))
	}

	for _, s := range samples {
		for kind, re := range compiled {
			matched := re.MatchString(s.line)
			if kind == s.kind && !matched {
				t.Errorf("%s template does not match its sample %q", kind, s.line)
			}
			if kind != s.kind && matched {
				t.Errorf("%s template also matches %s sample %q", kind, s.kind, s.line)
			}
		}
	}
}

func TestMatcher_ClassifyStatus(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		line string
		want Status
	}{
		{"Your group status is currently open.", StatusOpen},
		{"Your group status is currently closed.\r\n", StatusClosed},
	}

	for _, tc := range tests {
		kind, status, ok := m.Classify(tc.line)
		if !ok || kind != KindStatus {
			t.Fatalf("Classify(%q) = %s, %v", tc.line, kind, ok)
		}
		if status != tc.want {
			t.Errorf("Classify(%q) status = %s, want %s", tc.line, status, tc.want)
		}
	}
}

func TestMatcher_ClassifyUnmatched(t *testing.T) {
	m := NewMatcher()

	lines := []string{
		"",
		"You swing a broadsword at a kobold!",
		"Your group status is currently ajar.",
		"Bar joins your group.", // no entity markup
		foo + " designates you as the new leader of the group.",
		"You are leading the way.",
		"[Wehnimer's Landing, Town Square Central]",
	}

	for _, line := range lines {
		if kind, status, ok := m.Classify(line); ok || kind != KindNone || status != StatusUnknown {
			t.Errorf("Classify(%q) = %s, %s, %v; want none", line, kind, status, ok)
		}
	}
}

func TestMatcher_ClassifyTrailingNewline(t *testing.T) {
	m := NewMatcher()

	kind, _, ok := m.Classify("You disband your group.\r\n")
	if !ok || kind != KindDisband {
		t.Errorf("Classify with CRLF = %s, %v; want disband", kind, ok)
	}
}

func TestMatcher_Parse(t *testing.T) {
	m := Default()

	res, ok := m.Parse(foo + " adds " + bar + " to his group.\n")
	if !ok {
		t.Fatal("Parse matched nothing")
	}
	if res.Kind != KindLeaderAddedMember {
		t.Errorf("Kind = %s", res.Kind)
	}
	if len(res.Entities) != 2 || res.Entities[0].ID != 5 || res.Entities[1].ID != 9 {
		t.Errorf("Entities = %v", res.Entities)
	}

	if _, ok := m.Parse("Nothing to see here."); ok {
		t.Error("Parse of unmatched line should report false")
	}
}

func TestDefault_IsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same matcher")
	}
}

func TestSubstringPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		line string
		want bool
	}{
		{"given leadership", ContainsGivenLeadership, foo + " designates you as the new leader of the group.", true},
		{"given leadership decorated", ContainsGivenLeadership, "<b>" + foo + " designates you as the new leader of the group.</b>", true},
		{"given leadership other", ContainsGivenLeadership, foo + " designates " + bar + " as the new leader of the group.", false},
		{"indicator single quotes", ContainsIndicatorRemoved, "<indicator id='IconJOINED' visible='n'/>", true},
		{"indicator double quotes", ContainsIndicatorRemoved, `<indicator id="IconJOINED" visible="n"/>`, true},
		{"indicator visible", ContainsIndicatorRemoved, "<indicator id='IconJOINED' visible='y'/>", false},
		{"leading", ContainsLeading, "You are leading " + foo + ".", true},
		{"grouped with", ContainsGroupedWith, "You are grouped with " + foo + ".", true},
		{"grouped with absent", ContainsGroupedWith, "You are leading " + foo + ".", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.line); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
