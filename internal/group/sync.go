package group

import (
	"context"
	"slices"
	"time"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/event"
)

// Check clears the membership, sends the probe command and waits until a
// status report marks the state checked, the probe timeout elapses, or ctx
// is done. It returns whatever membership is present at that point, which
// may be incomplete. The probe timeout covers the send as well as the wait,
// so Check always returns by its deadline.
//
// When the probe cannot be sent the cleared membership and Checked flag are
// put back, unless a line arrived in the meantime.
func (t *Tracker) Check(ctx context.Context) []Member {
	t.probeMu.Lock()
	defer t.probeMu.Unlock()
	return t.check(ctx)
}

// MaybeCheck runs Check only if the state is not already checked. It
// returns true if a probe was attempted.
func (t *Tracker) MaybeCheck(ctx context.Context) bool {
	t.probeMu.Lock()
	defer t.probeMu.Unlock()

	if t.Checked() {
		return false
	}
	t.check(ctx)
	return true
}

// check must be called with probeMu held.
func (t *Tracker) check(ctx context.Context) []Member {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.ProbeTimeout)
	defer cancel()

	t.mu.Lock()
	commander, logger, bus := t.commander, t.logger, t.bus
	t.mu.Unlock()

	command := t.cfg.ProbeCommand
	if commander == nil {
		logger.Warn("group probe not sent", "command", command, "error", errors.ErrNoCommander)
		return t.snapshotMembers()
	}

	// Clear before sending so a fast reply is not wiped afterwards.
	before, gen := t.clearForProbe()
	start := time.Now()
	if err := send(ctx, commander, command); err != nil {
		logger.Warn("group probe not sent", "command", command, "error", err)
		t.restoreAfterProbe(before, gen)
		return t.snapshotMembers()
	}
	publish(bus, []event.Event{event.NewProbeSentEvent(command)})
	logger.Info("group probe sent", "command", command, "timeout", t.cfg.ProbeTimeout)

	confirmed := t.awaitChecked(ctx)
	elapsed := time.Since(start)
	members := t.snapshotMembers()

	if !confirmed {
		logger.Debug("group probe incomplete",
			"elapsed", elapsed,
			"members", len(members),
			"ctx_err", ctx.Err())
	}
	publish(bus, []event.Event{event.NewProbeCompletedEvent(confirmed, len(members), elapsed)})
	return members
}

// clearForProbe clears like Clear and returns the state it replaced along
// with the change channel current right after clearing.
func (t *Tracker) clearForProbe() (State, chan struct{}) {
	t.mu.Lock()
	before := t.state.Clone()
	t.state.clearMembers()
	t.state.Checked = false
	t.broadcastLocked()
	after, gen, bus := t.state.Clone(), t.changed, t.bus
	t.mu.Unlock()

	publish(bus, diff(before, after, "clear"))
	return before, gen
}

// restoreAfterProbe puts back the membership and Checked flag a failed probe
// cleared. Nothing is restored once a line has changed the state since gen.
func (t *Tracker) restoreAfterProbe(saved State, gen chan struct{}) {
	t.mu.Lock()
	if t.changed != gen {
		t.mu.Unlock()
		return
	}
	before := t.state.Clone()
	t.state.replace(saved.Members)
	t.state.Checked = saved.Checked
	t.broadcastLocked()
	after, bus := t.state.Clone(), t.bus
	t.mu.Unlock()

	publish(bus, diff(before, after, "restore"))
}

// awaitChecked blocks until Checked is true or ctx is done. ctx carries the
// probe deadline, armed once before the send.
func (t *Tracker) awaitChecked(ctx context.Context) bool {
	for {
		t.mu.Lock()
		checked, changed := t.state.Checked, t.changed
		t.mu.Unlock()

		if checked {
			return true
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return false
		}
	}
}

func send(ctx context.Context, c Commander, command string) error {
	if c == nil {
		return errors.ErrNoCommander
	}
	return c.Send(ctx, command)
}

func (t *Tracker) snapshotMembers() []Member {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.state.Members)
}
