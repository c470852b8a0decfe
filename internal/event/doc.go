// Package event provides a synchronous pub-sub bus that carries group
// tracking notifications to the TUI, the CLI and tests.
//
// The tracker publishes one event per observable change after it releases
// its own lock, so handlers may call back into the tracker's query API.
//
// # Event Categories
//
// Membership:
//   - [MemberJoinedEvent], [MemberLeftEvent]: incremental changes
//   - [RefreshedEvent]: a full listing replaced the membership
//   - [ClearedEvent]: members dropped by disband, probe or indicator
//
// Leadership and status:
//   - [LeaderChangedEvent], [StatusChangedEvent], [CheckedEvent]
//
// Probes:
//   - [ProbeSentEvent], [ProbeCompletedEvent]
//
// Room:
//   - [RoomChangedEvent]
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers are called synchronously on the
// publishing goroutine. A panicking handler is logged and does not prevent
// the remaining handlers from running.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeMemberJoined, func(e event.Event) {
//	    joined := e.(event.MemberJoinedEvent)
//	    fmt.Println("joined:", joined.Member.Name)
//	})
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("%s at %v", e.EventType(), e.Timestamp())
//	})
//
// Event types follow the pattern "category.action", e.g. group.member_joined,
// group.leader_changed, room.changed.
package event
