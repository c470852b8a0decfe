package group

import (
	"slices"
	"testing"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

func TestLeader(t *testing.T) {
	tests := []struct {
		name     string
		leader   Leader
		kind     LeaderKind
		str      string
		isSelf   bool
		isUnset  bool
		hasOther bool
	}{
		{"zero value", Leader{}, LeaderUnset, "unset", false, true, false},
		{"self", Self(), LeaderSelf, "self", true, false, false},
		{"other", Other(foo), LeaderOther, "Foo (#5)", false, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.leader.Kind() != tc.kind {
				t.Errorf("Kind() = %s, want %s", tc.leader.Kind(), tc.kind)
			}
			if tc.leader.String() != tc.str {
				t.Errorf("String() = %q, want %q", tc.leader.String(), tc.str)
			}
			if tc.leader.IsSelf() != tc.isSelf || tc.leader.IsUnset() != tc.isUnset {
				t.Errorf("IsSelf/IsUnset = %v/%v", tc.leader.IsSelf(), tc.leader.IsUnset())
			}
			if _, ok := tc.leader.Member(); ok != tc.hasOther {
				t.Errorf("Member() ok = %v, want %v", ok, tc.hasOther)
			}
		})
	}
}

func TestLeader_Equal(t *testing.T) {
	renamed := foo
	renamed.Name = "Renamed"

	tests := []struct {
		a, b Leader
		want bool
	}{
		{Leader{}, Leader{}, true},
		{Self(), Self(), true},
		{Self(), Leader{}, false},
		{Other(foo), Other(renamed), true},
		{Other(foo), Other(bar), false},
		{Other(foo), Self(), false},
	}

	for _, tc := range tests {
		if got := tc.a.Equal(tc.b); got != tc.want {
			t.Errorf("%s.Equal(%s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMember_String(t *testing.T) {
	if got := (Member{ID: -3, Noun: "kobold"}).String(); got != "kobold (#-3)" {
		t.Errorf("String() without name = %q", got)
	}
	if got := foo.String(); got != "Foo (#5)" {
		t.Errorf("String() = %q", got)
	}
}

func TestConvenienceQueries(t *testing.T) {
	tr := trackerWith(State{Members: []Member{foo, bar}, Leader: Self(), Status: StatusOpen, Checked: true})

	if tr.Size() != 2 || tr.Empty() {
		t.Errorf("Size()=%d Empty()=%v", tr.Size(), tr.Empty())
	}
	if got := tr.IDs(); !slices.Equal(got, []int64{5, 9}) {
		t.Errorf("IDs() = %v", got)
	}
	if got := tr.Nouns(); !slices.Equal(got, []string{"Foo", "Bar"}) {
		t.Errorf("Nouns() = %v", got)
	}
	if !tr.Includes(foo, bar) || tr.Includes(foo, baz) || !tr.Includes() {
		t.Error("Includes() mismatch")
	}

	want := "leader=self status=open checked=true members=[Foo (#5), Bar (#9)]"
	if got := tr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIsLeader_UnsetIsNotSelf(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	if tr.IsLeader() {
		t.Error("unset leader must not report IsLeader")
	}
	tr.Dispatch("You are leading " + ref(bar) + ".")
	if !tr.IsLeader() {
		t.Error("IsLeader() = false after 'You are leading'")
	}
}

func TestBroken(t *testing.T) {
	tests := []struct {
		name  string
		state State
		room  *fakeRoom
		want  bool
	}{
		{
			name:  "no observer",
			state: State{Members: []Member{bar}, Leader: Self()},
			room:  nil,
			want:  false,
		},
		{
			name:  "unset leader",
			state: State{Members: []Member{bar}},
			room:  &fakeRoom{},
			want:  false,
		},
		{
			name:  "leading, everyone visible",
			state: State{Members: []Member{bar, baz}, Leader: Self()},
			room:  &fakeRoom{players: []string{"Baz", "Bar", "Stranger"}},
			want:  false,
		},
		{
			name:  "leading, noun case differs",
			state: State{Members: []Member{bar}, Leader: Self()},
			room:  &fakeRoom{players: []string{"BAR"}},
			want:  false,
		},
		{
			name:  "leading, member missing",
			state: State{Members: []Member{bar, baz}, Leader: Self()},
			room:  &fakeRoom{players: []string{"Bar"}},
			want:  true,
		},
		{
			name:  "leading, empty room",
			state: State{Members: []Member{bar}, Leader: Self()},
			room:  &fakeRoom{},
			want:  true,
		},
		{
			name:  "leading alone",
			state: State{Leader: Self()},
			room:  &fakeRoom{},
			want:  false,
		},
		{
			name:  "following, leader visible",
			state: State{Members: []Member{foo, bar}, Leader: Other(foo)},
			room:  &fakeRoom{players: []string{"Foo"}},
			want:  false,
		},
		{
			name:  "following, leader gone",
			state: State{Members: []Member{foo, bar}, Leader: Other(foo)},
			room:  &fakeRoom{players: []string{"Bar"}},
			want:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := trackerWith(tc.state)
			if tc.room != nil {
				tr.SetRoomObserver(tc.room)
			}
			if got := tr.Broken(); got != tc.want {
				t.Errorf("Broken() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBroken_ParsedLeaveIsNotBroken(t *testing.T) {
	tr := trackerWith(State{Members: []Member{bar, baz}, Leader: Self()})
	tr.SetRoomObserver(&fakeRoom{players: []string{"Bar"}})

	tr.Dispatch(ref(baz) + " leaves your group.")

	if tr.Broken() {
		t.Error("a member whose leave was parsed should not make the group broken")
	}
}

func TestFindMember(t *testing.T) {
	tr := trackerWith(State{Members: []Member{
		{ID: 5, Noun: "Foo", Name: "Foo"},
		{ID: 9, Noun: "Bartholomew", Name: "Bartholomew"},
		{ID: -3, Noun: "kobold", Name: "large kobold"},
	}})

	tests := []struct {
		query  string
		wantID int64
		found  bool
	}{
		{"5", 5, true},
		{"#-3", -3, true},
		{"Foo", 5, true},
		{"large kobold", -3, true},
		{"FOO", 5, true},
		{"KOBOLD", -3, true},
		{"Bartholomeu", 9, true},
		{"Bartolomew", 9, true},
		{"Fo", 5, true},
		{"Zed", 0, false},
		{"Bxrthxlxmxw", 0, false},
		{"", 0, false},
		{"42", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			m, err := tr.FindMember(tc.query)
			if !tc.found {
				var nf *errors.NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("FindMember(%q) err = %v, want NotFoundError", tc.query, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindMember(%q) err = %v", tc.query, err)
			}
			if m.ID != tc.wantID {
				t.Errorf("FindMember(%q) = %s, want id %d", tc.query, m, tc.wantID)
			}
		})
	}
}

func TestFuzzyLimit(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{1, 1}, {4, 1}, {5, 2}, {8, 2}, {9, 3}, {40, 3},
	}
	for _, tc := range tests {
		if got := fuzzyLimit(tc.length); got != tc.want {
			t.Errorf("fuzzyLimit(%d) = %d, want %d", tc.length, got, tc.want)
		}
	}
}

func TestFindIn(t *testing.T) {
	candidates := []Member{
		{ID: 5, Noun: "Foo", Name: "Foo"},
		{ID: 9, Noun: "Bar", Name: "Bar"},
		{ID: 5, Noun: "Foo", Name: "Foo the Bold"},
	}

	tests := []struct {
		name       string
		candidates []Member
		query      string
		wantID     int64
		found      bool
	}{
		{"id", candidates, "#9", 9, true},
		{"first of duplicates", candidates, "5", 5, true},
		{"folded name", candidates, "foo the bold", 5, true},
		{"typo", candidates, "Baz", 9, true},
		{"trimmed", candidates, "  Bar ", 9, true},
		{"no candidates", nil, "Foo", 0, false},
		{"unknown id", candidates, "#12", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := FindIn(tc.candidates, tc.query)
			if !tc.found {
				if !errors.Is(err, &errors.NotFoundError{}) {
					t.Fatalf("FindIn(%q) err = %v, want NotFoundError", tc.query, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindIn(%q) err = %v", tc.query, err)
			}
			if m.ID != tc.wantID {
				t.Errorf("FindIn(%q) = %s, want id %d", tc.query, m, tc.wantID)
			}
		})
	}
}

func TestEntitiesIn(t *testing.T) {
	lines := []string{
		"Also here: " + ref(foo) + ", " + ref(bar) + ".",
		"nothing to see",
		ref(foo) + " waves.",
		"You are leading " + ref(baz) + ".",
	}

	got := EntitiesIn(lines)
	if want := []int64{5, 9, 12}; !slices.Equal(ids(got), want) {
		t.Errorf("EntitiesIn() ids = %v, want %v", ids(got), want)
	}
	if got[0].Noun != "Foo" {
		t.Errorf("EntitiesIn()[0] = %+v, want noun Foo", got[0])
	}
	if EntitiesIn(nil) != nil {
		t.Error("EntitiesIn(nil) should be nil")
	}
}
