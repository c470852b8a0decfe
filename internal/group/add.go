package group

import (
	"context"
	"slices"
	"strconv"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/group/match"
)

// AddResult is the outcome of adding one member.
type AddResult struct {
	Member Member
	Err    error
}

// waiter is a one-shot expectation for the server's reply to an add command.
type waiter struct {
	member Member
	done   chan error
}

// refers reports whether ref names the waiter's member, by id or noun.
func (w *waiter) refers(ref Member) bool {
	if ref.ID == w.member.ID {
		return true
	}
	return w.member.Noun != "" && fold(ref.Noun) == fold(w.member.Noun)
}

// AddMembers asks the server to add each member in turn and waits for its
// reply. "You add X" and "X is already a member" both count as success, and
// the dispatcher records the member. "X's group status is closed" fails with
// ErrGroupClosed and the member is dropped. No reply within the probe
// timeout yields a TimeoutError.
func (t *Tracker) AddMembers(ctx context.Context, members ...Member) []AddResult {
	results := make([]AddResult, 0, len(members))
	for _, m := range members {
		results = append(results, AddResult{Member: m, Err: t.addMember(ctx, m)})
	}
	return results
}

func (t *Tracker) addMember(ctx context.Context, m Member) error {
	timeout := t.cfg.ProbeTimeout
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	w := &waiter{member: m, done: make(chan error, 1)}

	t.mu.Lock()
	t.waiters = append(t.waiters, w)
	commander, logger := t.commander, t.logger
	t.mu.Unlock()
	defer t.dropWaiter(w)

	command := "group #" + strconv.FormatInt(m.ID, 10)
	if err := send(waitCtx, commander, command); err != nil {
		if ctx.Err() == nil && waitCtx.Err() != nil {
			return errors.NewTimeoutError("sending "+command, timeout).WithCause(err)
		}
		return errors.Wrapf(err, "failed to send %q", command)
	}
	logger.Debug("add command sent", "command", command, "member", m.String())

	select {
	case err := <-w.done:
		return err
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return errors.NewTimeoutError("waiting for reply to "+command, timeout)
	}
}

func (t *Tracker) dropWaiter(w *waiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waiters = slices.DeleteFunc(t.waiters, func(o *waiter) bool { return o == w })
}

// resolveWaitersLocked completes any waiter the line answers. It returns
// true if the state changed, which only happens when a closed group forces
// the member out.
func (t *Tracker) resolveWaitersLocked(l *line) bool {
	if len(t.waiters) == 0 || !l.is(match.KindAdd, match.KindNoop, match.KindGroupClosed) {
		return false
	}

	changed := false
	remaining := t.waiters[:0]
	for _, w := range t.waiters {
		answered := slices.ContainsFunc(l.members(), w.refers)
		if !answered {
			remaining = append(remaining, w)
			continue
		}

		var err error
		if l.kind == match.KindGroupClosed {
			if t.state.remove(w.member.ID) {
				changed = true
			}
			err = errors.Wrapf(errors.ErrGroupClosed, "cannot add %s", w.member)
		}
		w.done <- err
	}
	clear(t.waiters[len(remaining):])
	t.waiters = remaining
	return changed
}
