// Package tmux provides helpers for driving a game client that runs inside a
// tmux pane.
//
// Many players keep their client in a long-lived tmux session. groupsense can
// read that client's log with a Follower and type commands into its pane with
// send-keys, so the probe works without a second connection to the server.
//
// An empty socket name means the user's default tmux server. A non-empty name
// selects a server started with "tmux -L <socket>".
package tmux

import (
	"context"
	"os/exec"
	"strings"
)

// Binary is the tmux executable looked up on PATH.
const Binary = "tmux"

// BaseArgsWithSocket returns the socket arguments for socket, or nil for the
// default server.
func BaseArgsWithSocket(socket string) []string {
	if socket == "" {
		return nil
	}
	return []string{"-L", socket}
}

// CommandArgsWithSocket returns the full tmux argument list for args on socket.
func CommandArgsWithSocket(socket string, args ...string) []string {
	return append(BaseArgsWithSocket(socket), args...)
}

// CommandContextWithSocket creates a context-aware exec.Cmd for tmux on socket.
func CommandContextWithSocket(ctx context.Context, socket string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, Binary, CommandArgsWithSocket(socket, args...)...)
}

// Sender sends keystrokes to a tmux target. It exists so callers can be
// tested without a tmux server.
type Sender interface {
	// SendKeys sends keys to target. If literal is true the keys are sent
	// without key-name lookup (-l).
	SendKeys(ctx context.Context, target, keys string, literal bool) error
}

// Client runs tmux commands against one server.
type Client struct {
	Socket string
}

// SendKeysArgs returns the send-keys argument list, without socket args.
func SendKeysArgs(target, keys string, literal bool) []string {
	args := []string{"send-keys", "-t", target}
	if literal {
		args = append(args, "-l")
	}
	return append(args, keys)
}

// SendKeys implements Sender.
func (c Client) SendKeys(ctx context.Context, target, keys string, literal bool) error {
	out, err := CommandContextWithSocket(ctx, c.Socket, SendKeysArgs(target, keys, literal)...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return &CommandError{Args: SendKeysArgs(target, keys, literal), Output: msg, Err: err}
		}
		return err
	}
	return nil
}

// HasSession reports whether target names an existing session on the server.
func (c Client) HasSession(ctx context.Context, target string) bool {
	session, _, _ := strings.Cut(target, ":")
	return CommandContextWithSocket(ctx, c.Socket, "has-session", "-t", session).Run() == nil
}

// CommandError carries tmux's own diagnostic alongside the exit error.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	return "tmux " + e.Args[0] + ": " + e.Output
}

func (e *CommandError) Unwrap() error { return e.Err }
