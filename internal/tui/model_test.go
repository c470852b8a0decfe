package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupsense/internal/group"
	"github.com/Iron-Ham/groupsense/internal/session"
)

type fakeGroup struct {
	state  group.State
	broken bool
	checks int
}

func (f *fakeGroup) Snapshot() group.State { return f.state.Clone() }
func (f *fakeGroup) Broken() bool          { return f.broken }
func (f *fakeGroup) Check(context.Context) []group.Member {
	f.checks++
	f.state.Checked = true
	return f.state.Members
}

var (
	foo = group.Member{ID: 5, Noun: "Foo", Name: "Foo"}
	bar = group.Member{ID: 9, Noun: "Bar", Name: "Bar"}
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(g *fakeGroup, h *session.History) Model {
	return NewModel(context.Background(), Options{Group: g, History: h})
}

func TestNewModel_Defaults(t *testing.T) {
	m := newTestModel(&fakeGroup{}, nil)
	if m.refresh != DefaultRefresh || m.rows != DefaultHistoryRows {
		t.Errorf("refresh=%v rows=%d", m.refresh, m.rows)
	}
	if m.Init() == nil {
		t.Error("Init() should start the refresh tick")
	}
}

func TestView(t *testing.T) {
	g := &fakeGroup{state: group.State{
		Members: []group.Member{foo, bar},
		Leader:  group.Other(foo),
		Status:  group.StatusOpen,
		Checked: true,
	}, broken: true}
	h := session.NewHistory(5)
	h.Add(session.Entry{Time: time.Now(), Line: "Foo joins your group.", Handled: true})

	view := newTestModel(g, h).View()

	for _, want := range []string{"leader: Foo (#5)", "open", "checked", "BROKEN", "Members (2)", "* Foo (#5)", "Bar (#9)", "Foo joins your group."} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestView_Empty(t *testing.T) {
	view := newTestModel(&fakeGroup{}, nil).View()
	for _, want := range []string{"leader: unset", "unknown", "unchecked", "no members", "waiting for output"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "BROKEN") {
		t.Error("View() should not flag an empty group as broken")
	}
}

func TestUpdate_CheckKey(t *testing.T) {
	g := &fakeGroup{state: group.State{Members: []group.Member{foo}}}
	m := newTestModel(g, nil)

	next, cmd := m.Update(keyPress('c'))
	m = next.(Model)
	if !m.probing || cmd == nil {
		t.Fatal("pressing c should start a probe")
	}
	if !strings.Contains(m.View(), "checking group") {
		t.Error("View() should show the probe in progress")
	}

	// A second press while probing is ignored.
	if _, again := m.Update(keyPress('c')); again != nil {
		t.Error("second check while probing should be a no-op")
	}

	done, ok := cmd().(probeDoneMsg)
	if !ok {
		t.Fatalf("probe cmd returned %T", cmd())
	}
	if done.members != 1 || g.checks != 1 {
		t.Errorf("probeDoneMsg = %+v, checks = %d", done, g.checks)
	}

	next, _ = m.Update(done)
	m = next.(Model)
	if m.probing || !m.state.Checked {
		t.Errorf("after probe: probing=%v checked=%v", m.probing, m.state.Checked)
	}
	if !strings.Contains(m.View(), "last check") {
		t.Error("View() should report the last check")
	}
}

func TestUpdate_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyPress('q'), {Type: tea.KeyCtrlC}} {
		next, cmd := newTestModel(&fakeGroup{}, nil).Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: cmd returned %T, want tea.QuitMsg", msg, cmd())
		}
		if next.(Model).View() != "" {
			t.Errorf("%s: View() should be empty after quitting", msg)
		}
	}
}

func TestUpdate_ClearHistory(t *testing.T) {
	h := session.NewHistory(5)
	h.Add(session.Entry{Line: "x"})
	m := newTestModel(&fakeGroup{}, h)

	next, _ := m.Update(keyPress('x'))
	if h.Len() != 0 || len(next.(Model).lines) != 0 {
		t.Error("x should clear recent lines")
	}
}

func TestUpdate_ToggleHelp(t *testing.T) {
	m := newTestModel(&fakeGroup{}, nil)
	next, _ := m.Update(keyPress('?'))
	if !next.(Model).help.ShowAll {
		t.Error("? should expand help")
	}
}

func TestUpdate_RefreshSources(t *testing.T) {
	g := &fakeGroup{}
	m := newTestModel(g, nil)
	g.state.Members = []group.Member{bar}

	next, cmd := m.Update(tickMsg(time.Now()))
	if len(next.(Model).state.Members) != 1 {
		t.Error("tick should resync the tracker")
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	g.state.Members = nil
	next, _ = next.(Model).Update(changedMsg{})
	if len(next.(Model).state.Members) != 0 {
		t.Error("changedMsg should resync the tracker")
	}
}

func TestUpdate_SourceDone(t *testing.T) {
	m := newTestModel(&fakeGroup{}, nil)

	next, _ := m.Update(SourceDoneMsg{})
	if !strings.Contains(next.(Model).View(), "source ended") {
		t.Error("View() should report the source ending")
	}

	next, _ = m.Update(SourceDoneMsg{Err: errors.New("connection reset")})
	if !strings.Contains(next.(Model).View(), "connection reset") {
		t.Error("View() should show the source error")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"日本語です", 5, "日本…"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
