package session

import (
	"sync"
	"time"
)

// DefaultHistoryLines is the number of lines a History keeps when no size is
// configured.
const DefaultHistoryLines = 200

// Entry is one recorded line.
type Entry struct {
	Time time.Time
	Line string
	// Handled is true when at least one sink changed state for the line.
	Handled bool
}

// History is a thread-safe ring of the most recent lines seen by a Pump.
//
// The ring keeps two indices: start points at the oldest entry and end at
// the next slot to write. Once full, each Add advances both, sliding the
// window forward:
//
//	size 3, add a b c: [a b c] start=0 end=0 full
//	add d:             [d b c] start=1 end=1 -> Entries() is b c d
type History struct {
	mu      sync.RWMutex
	entries []Entry
	start   int
	end     int
	full    bool
	handled int
}

// NewHistory returns a History holding up to size lines. A non-positive size
// uses DefaultHistoryLines.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistoryLines
	}
	return &History{entries: make([]Entry, size)}
}

// Add records a line.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.end] = e
	h.end = (h.end + 1) % len(h.entries)
	if h.full {
		h.start = (h.start + 1) % len(h.entries)
	}
	if h.end == h.start {
		h.full = true
	}
	if e.Handled {
		h.handled++
	}
}

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Entry, 0, h.len())
	if h.full || h.end < h.start {
		out = append(out, h.entries[h.start:]...)
		return append(out, h.entries[:h.end]...)
	}
	return append(out, h.entries[h.start:h.end]...)
}

// Tail returns up to n of the most recent lines, oldest first.
func (h *History) Tail(n int) []Entry {
	all := h.Entries()
	if n >= 0 && len(all) > n {
		return all[len(all)-n:]
	}
	return all
}

// Len returns the number of lines currently held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.len()
}

func (h *History) len() int {
	if h.full {
		return len(h.entries)
	}
	if h.end >= h.start {
		return h.end - h.start
	}
	return len(h.entries) - h.start + h.end
}

// Handled returns how many recorded lines changed state, including lines
// that have since been overwritten.
func (h *History) Handled() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.handled
}

// Reset discards all recorded lines.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clear(h.entries)
	h.start, h.end, h.full, h.handled = 0, 0, false, 0
}
