package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Iron-Ham/groupsense/internal/event"
	"github.com/Iron-Ham/groupsense/internal/group"
)

func participant(p event.Participant) string {
	return group.Member{ID: p.ID, Noun: p.Noun, Name: p.Name}.String()
}

// formatEvent renders an event as one human-readable line. Events with
// nothing worth printing return "".
func formatEvent(e event.Event) string {
	stamp := e.Timestamp().Format(time.TimeOnly)
	var text string
	switch e := e.(type) {
	case event.MemberJoinedEvent:
		text = fmt.Sprintf("+ %s joined (%s)", participant(e.Member), e.Rule)
	case event.MemberLeftEvent:
		text = fmt.Sprintf("- %s left (%s)", participant(e.Member), e.Rule)
	case event.RefreshedEvent:
		names := make([]string, len(e.Members))
		for i, m := range e.Members {
			names[i] = participant(m)
		}
		text = fmt.Sprintf("= group is %s", strings.Join(names, ", "))
	case event.ClearedEvent:
		text = fmt.Sprintf("= group cleared (%s)", e.Reason)
	case event.LeaderChangedEvent:
		if e.Kind == group.LeaderOther.String() {
			text = "leader is now " + participant(e.Leader)
		} else {
			text = "leader is now " + e.Kind
		}
	case event.StatusChangedEvent:
		text = "status is now " + e.Status
	case event.ProbeSentEvent:
		text = fmt.Sprintf("> %s", e.Command)
	case event.ProbeCompletedEvent:
		if !e.Confirmed {
			text = fmt.Sprintf("probe unconfirmed after %s", e.Elapsed.Round(time.Millisecond))
		}
	}
	if text == "" {
		return ""
	}
	return stamp + " " + text
}

// printState writes the tracker's state as a short report.
func printState(w io.Writer, st group.State, broken bool) {
	fmt.Fprintf(w, "leader:  %s\n", st.Leader)
	fmt.Fprintf(w, "status:  %s\n", st.Status)
	fmt.Fprintf(w, "checked: %v\n", st.Checked)
	if broken {
		fmt.Fprintln(w, "broken:  true")
	}
	fmt.Fprintf(w, "members: %d\n", len(st.Members))
	for _, m := range st.Members {
		marker := " "
		if st.Leader.Is(m.ID) {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, m)
	}
}
