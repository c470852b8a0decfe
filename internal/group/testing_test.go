package group

import (
	"context"
	"fmt"
	"sync"
)

func tag(id int64, noun string) string {
	return fmt.Sprintf(`<a exist="%d" noun="%s">%s</a>`, id, noun, noun)
}

func member(id int64, noun string) Member {
	return Member{ID: id, Noun: noun, Name: noun}
}

var (
	foo = member(5, "Foo")
	bar = member(9, "Bar")
	baz = member(12, "Baz")
	qux = member(-3, "Qux")
)

func ref(m Member) string { return tag(m.ID, m.Noun) }

// trackerWith returns a tracker whose state starts as s.
func trackerWith(s State) *Tracker {
	t := NewTracker(DefaultConfig())
	t.state = s.Clone()
	return t
}

func ids(members []Member) []int64 {
	out := make([]int64, len(members))
	for i, m := range members {
		out[i] = m.ID
	}
	return out
}

// fakeCommander records sent commands. When reply is set it is invoked on
// a separate goroutine, the way server output arrives on the consumer.
type fakeCommander struct {
	mu    sync.Mutex
	sent  []string
	err   error
	reply func(command string)
	wg    sync.WaitGroup
}

func (f *fakeCommander) Send(_ context.Context, command string) error {
	f.mu.Lock()
	f.sent = append(f.sent, command)
	err, reply := f.err, f.reply
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if reply != nil {
		f.wg.Go(func() { reply(command) })
	}
	return nil
}

func (f *fakeCommander) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fakeRoom struct {
	players []string
}

func (r *fakeRoom) Players() []string { return r.players }
