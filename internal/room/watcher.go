// Package room tracks which players are visible in the character's current
// room from passive server lines. It is the independent signal the group
// tracker compares its membership against.
package room

import (
	"regexp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/Iron-Ham/groupsense/internal/event"
	"github.com/Iron-Ham/groupsense/internal/group/match"
	"github.com/Iron-Ham/groupsense/internal/logging"
)

var (
	// titlePattern matches a room title such as "[Town Square, Central]".
	titlePattern = regexp.MustCompile(`^\s*\[[^\]]+\]`)

	alsoHerePattern = regexp.MustCompile(`^\s*Also here: `)
	arrivedPattern  = regexp.MustCompile(`^\s*<a [^>]+>[^<]+</a> just arrived`)
	departedPattern = regexp.MustCompile(`^\s*<a [^>]+>[^<]+</a> just (?:went|left)\b`)
)

// Watcher maintains the set of player nouns visible in the room.
// It is safe for concurrent use.
type Watcher struct {
	mu      sync.RWMutex
	players []string

	bus    *event.Bus
	logger *logging.Logger
}

// NewWatcher creates a Watcher with an empty room.
func NewWatcher() *Watcher {
	return &Watcher{logger: logging.NopLogger()}
}

// SetLogger sets the logger for the watcher.
func (w *Watcher) SetLogger(logger *logging.Logger) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
}

// SetBus sets the bus that receives room change events.
func (w *Watcher) SetBus(bus *event.Bus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bus = bus
}

// Players returns the nouns of the players currently visible.
func (w *Watcher) Players() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.players)
}

// Dispatch updates the room from one server line. It returns true if the
// line was a room line, whether or not the player set changed.
func (w *Watcher) Dispatch(line string) bool {
	line = strings.TrimRight(line, "\r\n")

	var (
		handled bool
		apply   func(players []string) []string
	)
	switch {
	case titlePattern.MatchString(line):
		handled = true
		apply = func([]string) []string { return nil }
	case alsoHerePattern.MatchString(line):
		handled = true
		nouns := nounsIn(line)
		apply = func([]string) []string { return addAll(nil, nouns) }
	case arrivedPattern.MatchString(line):
		handled = true
		nouns := nounsIn(line)
		apply = func(players []string) []string { return addAll(players, first(nouns)) }
	case departedPattern.MatchString(line):
		handled = true
		nouns := nounsIn(line)
		apply = func(players []string) []string { return removeAll(players, first(nouns)) }
	}
	if !handled {
		return false
	}

	w.mu.Lock()
	before := w.players
	w.players = apply(slices.Clone(before))
	after := slices.Clone(w.players)
	changed := !slices.Equal(before, w.players)
	bus, logger := w.bus, w.logger
	w.mu.Unlock()

	if changed {
		logger.Debug("room players changed", "players", after)
		if bus != nil {
			bus.Publish(event.NewRoomChangedEvent(after))
		}
	}
	return true
}

// Reset empties the room.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players = nil
}

func nounsIn(line string) []string {
	refs := match.Extract(line)
	nouns := make([]string, 0, len(refs))
	for _, ref := range refs {
		nouns = append(nouns, ref.Noun)
	}
	return nouns
}

// first limits arrival and departure lines to their actor; anything named
// later in the line ("... just arrived, following Foo") is not the mover.
func first(nouns []string) []string {
	return nouns[:min(1, len(nouns))]
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func indexFold(players []string, noun string) int {
	key := fold(noun)
	return slices.IndexFunc(players, func(p string) bool { return fold(p) == key })
}

func addAll(players, nouns []string) []string {
	for _, n := range nouns {
		if indexFold(players, n) < 0 {
			players = append(players, n)
		}
	}
	return players
}

func removeAll(players, nouns []string) []string {
	for _, n := range nouns {
		if i := indexFold(players, n); i >= 0 {
			players = slices.Delete(players, i, i+1)
		}
	}
	return players
}
