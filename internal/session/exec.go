package session

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

// ExecConn runs a game client as a child process attached to a pseudo
// terminal. Clients that switch to line-buffered plain output only when they
// see a terminal work unmodified; groupsense reads the pty and types commands
// into it.
type ExecConn struct {
	argv []string
	cmd  *exec.Cmd
	ptmx *os.File

	writeMu sync.Mutex
	once    sync.Once
}

// StartExec starts argv[0] with the remaining arguments under a pty. The
// process is killed when ctx is cancelled.
func StartExec(ctx context.Context, argv []string) (*ExecConn, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.NewValidationError("exec command is empty").WithField("transport.exec_command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, errors.NewTransportError("start failed", errors.Join(errors.ErrTransportUnavailable, err)).
			WithKind("exec").
			WithEndpoint(strings.Join(argv, " "))
	}
	return &ExecConn{argv: argv, cmd: cmd, ptmx: ptmx}, nil
}

// Run emits the client's output lines until the process exits.
func (c *ExecConn) Run(ctx context.Context, emit func(string)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	var pending []byte
	buf := make([]byte, 32*1024)
	for {
		n, err := c.ptmx.Read(buf)
		if n > 0 {
			pending = splitLines(append(pending, buf[:n]...), emit)
		}
		if err == nil {
			continue
		}
		if len(pending) > 0 {
			emit(strings.TrimRight(string(pending), "\r"))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Linux reports EIO on the master once the child side closes.
		if errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) {
			return c.wait()
		}
		return c.wrap("read failed", err)
	}
}

func (c *ExecConn) wait() error {
	if err := c.cmd.Wait(); err != nil {
		return c.wrap("client exited", err)
	}
	return nil
}

// Send types command into the terminal followed by a carriage return.
func (c *ExecConn) Send(_ context.Context, command string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.ptmx.Write([]byte(command + "\r")); err != nil {
		return c.wrap("write failed", errors.Join(errors.ErrTransportClosed, err))
	}
	return nil
}

// Close closes the pty, which ends the client's terminal session.
func (c *ExecConn) Close() error {
	var err error
	c.once.Do(func() { err = c.ptmx.Close() })
	return err
}

func (c *ExecConn) wrap(message string, err error) error {
	return errors.NewTransportError(message, err).
		WithKind("exec").
		WithEndpoint(strings.Join(c.argv, " "))
}
