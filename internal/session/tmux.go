package session

import (
	"context"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/tmux"
)

// TmuxCommander types commands into the tmux pane running the game client.
// It pairs with a Follower reading that client's log.
type TmuxCommander struct {
	target string
	sender tmux.Sender
}

// NewTmuxCommander returns a commander for target ("session", "session:win"
// or "session:win.pane") on the given socket.
func NewTmuxCommander(target, socket string) *TmuxCommander {
	return &TmuxCommander{target: target, sender: tmux.Client{Socket: socket}}
}

// WithSender replaces the tmux sender, for tests.
func (c *TmuxCommander) WithSender(s tmux.Sender) *TmuxCommander {
	c.sender = s
	return c
}

// Send types command literally, then presses Enter.
func (c *TmuxCommander) Send(ctx context.Context, command string) error {
	if err := c.sender.SendKeys(ctx, c.target, command, true); err != nil {
		return c.wrap(err)
	}
	if err := c.sender.SendKeys(ctx, c.target, "Enter", false); err != nil {
		return c.wrap(err)
	}
	return nil
}

func (c *TmuxCommander) wrap(err error) error {
	return errors.NewTransportError("send-keys failed", err).
		WithKind("tmux").
		WithEndpoint(c.target)
}
