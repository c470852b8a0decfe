// Package session connects groupsense to a running game client.
//
// A session has two halves. A Source produces the raw text lines the server
// sends, and a Commander delivers commands (such as the "group" probe) back to
// the server. Some transports provide both halves (TCPConn, WSConn, ExecConn);
// others are read-only (ReaderSource, Follower) and are paired with a
// TmuxCommander or NopCommander.
//
// Pump reads a Source until it ends and hands every line to a set of Sinks,
// recording the most recent lines in a History.
package session

import (
	"context"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

// Source produces lines of server output.
//
// Run blocks until the source is exhausted, the context is cancelled, or the
// underlying transport fails. emit is called once per line, without the
// trailing newline, from the goroutine running Run.
type Source interface {
	Run(ctx context.Context, emit func(line string)) error
}

// Commander sends a single command line to the server.
type Commander interface {
	Send(ctx context.Context, command string) error
}

// Sink consumes lines. group.Tracker and room.Watcher both satisfy it.
type Sink interface {
	Dispatch(line string) bool
}

// Conn is a transport that is both a Source and a Commander.
type Conn interface {
	Source
	Commander
	Close() error
}

// NopCommander accepts commands and discards them. It is used with read-only
// sources so probes degrade to the passive timeout instead of failing.
type NopCommander struct{}

// Send discards the command.
func (NopCommander) Send(context.Context, string) error { return nil }

// ReadOnly is a Commander for sources that cannot send anything. Unlike
// NopCommander it reports the failure, so callers log it.
type ReadOnly struct{}

// Send always fails with errors.ErrNoCommander.
func (ReadOnly) Send(context.Context, string) error { return errors.ErrNoCommander }
