package session

import (
	"context"
	"time"
)

// Pump runs src and hands each line to every sink in order. Lines are
// recorded in history when it is non-nil. It returns the number of lines read
// and the source's error; a cancelled context is returned as ctx.Err().
//
// Sinks run on the source's goroutine, so a sink must not block on anything
// that needs a later line to arrive.
func Pump(ctx context.Context, src Source, history *History, sinks ...Sink) (int, error) {
	n := 0
	err := src.Run(ctx, func(line string) {
		n++
		handled := false
		for _, s := range sinks {
			if s.Dispatch(line) {
				handled = true
			}
		}
		if history != nil {
			history.Add(Entry{Time: time.Now(), Line: line, Handled: handled})
		}
	})
	return n, err
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(line string) bool

// Dispatch calls f.
func (f SinkFunc) Dispatch(line string) bool { return f(line) }
