package session

import (
	"fmt"
	"sync"
	"testing"
)

func lines(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Line
	}
	return out
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name string
		size int
		add  []string
		want []string
	}{
		{"empty", 3, nil, []string{}},
		{"partial", 3, []string{"a", "b"}, []string{"a", "b"}},
		{"exactly full", 3, []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"wrapped", 3, []string{"a", "b", "c", "d"}, []string{"b", "c", "d"}},
		{"wrapped twice", 2, []string{"a", "b", "c", "d", "e"}, []string{"d", "e"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHistory(tc.size)
			for _, l := range tc.add {
				h.Add(Entry{Line: l})
			}
			got := lines(h.Entries())
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Errorf("Entries() = %v, want %v", got, tc.want)
			}
			if h.Len() != len(tc.want) {
				t.Errorf("Len() = %d, want %d", h.Len(), len(tc.want))
			}
		})
	}
}

func TestHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	for i := range DefaultHistoryLines + 5 {
		h.Add(Entry{Line: fmt.Sprint(i)})
	}
	if h.Len() != DefaultHistoryLines {
		t.Errorf("Len() = %d, want %d", h.Len(), DefaultHistoryLines)
	}
}

func TestHistory_TailAndHandled(t *testing.T) {
	h := NewHistory(4)
	h.Add(Entry{Line: "a", Handled: true})
	h.Add(Entry{Line: "b"})
	h.Add(Entry{Line: "c", Handled: true})

	if got := lines(h.Tail(2)); fmt.Sprint(got) != "[b c]" {
		t.Errorf("Tail(2) = %v", got)
	}
	if got := lines(h.Tail(10)); len(got) != 3 {
		t.Errorf("Tail(10) = %v", got)
	}
	if h.Handled() != 2 {
		t.Errorf("Handled() = %d, want 2", h.Handled())
	}

	h.Reset()
	if h.Len() != 0 || h.Handled() != 0 {
		t.Errorf("after Reset Len=%d Handled=%d", h.Len(), h.Handled())
	}
}

func TestHistory_Concurrent(t *testing.T) {
	h := NewHistory(16)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() { h.Add(Entry{Line: fmt.Sprint(i)}) })
		wg.Go(func() { _ = h.Entries() })
	}
	wg.Wait()
	if h.Len() != 16 {
		t.Errorf("Len() = %d, want 16", h.Len())
	}
}
