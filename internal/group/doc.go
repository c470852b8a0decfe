// Package group infers group membership, leadership and open/closed status
// from the narrative lines a text game server emits.
//
// There is no structured protocol. Each line is classified by the match
// package and run through an ordered rule table that mutates a [State]
// owned by a [Tracker]. Pushing a member that is already tracked and
// removing one that is not are both no-ops, so duplicated lines are
// harmless. Dropped lines are repaired by probing: [Tracker.Check] clears
// the state, asks the server for a status report and waits a bounded time
// for it. [Tracker.Broken] compares tracked membership against the players
// visible in the room to flag state that has drifted.
//
// # Basic Usage
//
//	tracker := group.NewTracker(group.DefaultConfig())
//	tracker.SetCommander(conn)
//	for line := range lines {
//	    tracker.Dispatch(line)
//	}
//
//	// from another goroutine
//	members := tracker.Members(ctx)
//	if tracker.IsLeader() && tracker.Broken() {
//	    tracker.Check(ctx)
//	}
package group
