package session

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

// TCPConn is a plain line-oriented connection to a game server or a proxy
// in front of one.
type TCPConn struct {
	addr string
	conn net.Conn

	writeMu sync.Mutex
	closeMu sync.Once
}

// DialTCP connects to addr. timeout bounds the dial; zero means no bound
// beyond ctx.
func DialTCP(ctx context.Context, addr string, timeout time.Duration) (*TCPConn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.NewTransportError("dial failed", errors.Join(errors.ErrTransportUnavailable, err)).
			WithKind("tcp").
			WithEndpoint(addr)
	}
	return &TCPConn{addr: addr, conn: conn}, nil
}

// Run emits server lines until the connection closes or ctx is cancelled.
// Cancelling ctx closes the connection.
func (c *TCPConn) Run(ctx context.Context, emit func(string)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	err := NewReaderSource(c.conn, c.addr).Run(ctx, emit)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return errors.NewTransportError("connection lost", err).
			WithKind("tcp").
			WithEndpoint(c.addr)
	}
	return nil
}

// Send writes command followed by a newline.
func (c *TCPConn) Send(ctx context.Context, command string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer func() { _ = c.conn.SetWriteDeadline(time.Time{}) }()
	}
	if _, err := c.conn.Write([]byte(command + "\n")); err != nil {
		return errors.NewTransportError("write failed", errors.Join(errors.ErrTransportClosed, err)).
			WithKind("tcp").
			WithEndpoint(c.addr)
	}
	return nil
}

// Close closes the connection. It is safe to call more than once.
func (c *TCPConn) Close() error {
	var err error
	c.closeMu.Do(func() { err = c.conn.Close() })
	return err
}
