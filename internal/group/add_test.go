package group

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

func TestAddMembers(t *testing.T) {
	tr := NewTracker(Config{ProbeTimeout: 200 * time.Millisecond})
	tr.Dispatch("You are leading " + ref(baz) + ".")

	replies := map[string]string{
		"group #5":  "You add " + ref(foo) + " to your group.",
		"group #12": "But " + ref(baz) + " is already a member of your group!",
		"group #9":  ref(bar) + "'s group status is closed.",
	}
	cmd := &fakeCommander{}
	cmd.reply = func(command string) {
		if line, ok := replies[command]; ok {
			tr.Dispatch(line)
		}
	}
	tr.SetCommander(cmd)

	results := tr.AddMembers(context.Background(), foo, baz, bar, qux)
	cmd.wg.Wait()

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if results[0].Err != nil || results[0].Member.ID != foo.ID {
		t.Errorf("add Foo: %+v", results[0])
	}
	if results[1].Err != nil {
		t.Errorf("already-member Baz should succeed: %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, errors.ErrGroupClosed) {
		t.Errorf("closed Bar err = %v, want ErrGroupClosed", results[2].Err)
	}
	var timeout *errors.TimeoutError
	if !errors.As(results[3].Err, &timeout) {
		t.Errorf("silent Qux err = %v, want TimeoutError", results[3].Err)
	}

	if got := tr.IDs(); !slices.Equal(got, []int64{12, 5}) {
		t.Errorf("members = %v, want [12 5]", got)
	}
	wantSent := []string{"group #5", "group #12", "group #9", "group #-3"}
	if got := cmd.commands(); !slices.Equal(got, wantSent) {
		t.Errorf("sent = %v, want %v", got, wantSent)
	}
	if n := len(tr.waiters); n != 0 {
		t.Errorf("%d waiters left registered", n)
	}
}

func TestAddMembers_ClosedGroupDropsTrackedMember(t *testing.T) {
	tr := trackerWith(State{Members: []Member{bar}, Leader: Self()})
	tr.cfg.ProbeTimeout = time.Second
	cmd := &fakeCommander{reply: func(string) {
		tr.Dispatch(ref(bar) + "'s group status is closed.")
	}}
	tr.SetCommander(cmd)

	results := tr.AddMembers(context.Background(), bar)
	cmd.wg.Wait()

	if !errors.Is(results[0].Err, errors.ErrGroupClosed) {
		t.Fatalf("err = %v", results[0].Err)
	}
	if tr.Includes(bar) {
		t.Error("Bar should be dropped after a closed-group reply")
	}
}

func TestAddMembers_MatchesByNoun(t *testing.T) {
	tr := NewTracker(Config{ProbeTimeout: time.Second})
	cmd := &fakeCommander{reply: func(string) {
		// The server echoes a different exist id for the same character.
		tr.Dispatch(`You add <a exist="77" noun="Foo">Foo</a> to your group.`)
	}}
	tr.SetCommander(cmd)

	results := tr.AddMembers(context.Background(), foo)
	cmd.wg.Wait()

	if results[0].Err != nil {
		t.Errorf("err = %v, want success matched by noun", results[0].Err)
	}
}

func TestAddMembers_SendFailure(t *testing.T) {
	tr := NewTracker(Config{ProbeTimeout: time.Minute})
	tr.SetCommander(&fakeCommander{err: errors.ErrTransportClosed})

	results := tr.AddMembers(context.Background(), foo)

	if !errors.Is(results[0].Err, errors.ErrTransportClosed) {
		t.Errorf("err = %v, want ErrTransportClosed", results[0].Err)
	}
	if !strings.Contains(results[0].Err.Error(), "group #5") {
		t.Errorf("err %q should name the command", results[0].Err)
	}
}

func TestAddMembers_NoCommander(t *testing.T) {
	tr := NewTracker(Config{ProbeTimeout: time.Minute})

	results := tr.AddMembers(context.Background(), foo)

	if !errors.Is(results[0].Err, errors.ErrNoCommander) {
		t.Errorf("err = %v, want ErrNoCommander", results[0].Err)
	}
}

func TestAddMembers_ContextCancelled(t *testing.T) {
	tr := NewTracker(Config{ProbeTimeout: time.Minute})
	tr.SetCommander(&fakeCommander{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := tr.AddMembers(ctx, foo)

	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", results[0].Err)
	}
}

func TestAddMembers_BlockedSendTimesOut(t *testing.T) {
	tr := NewTracker(fastConfig())
	tr.SetCommander(commanderFunc(func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	done := make(chan []AddResult, 1)
	go func() { done <- tr.AddMembers(context.Background(), foo) }()

	select {
	case results := <-done:
		var timeout *errors.TimeoutError
		if !errors.As(results[0].Err, &timeout) {
			t.Fatalf("err = %v, want TimeoutError", results[0].Err)
		}
		if !errors.Is(results[0].Err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want it to wrap context.DeadlineExceeded", results[0].Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("AddMembers still blocked on send after the probe timeout")
	}
}
