package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

// WSConn speaks to a websocket relay that forwards the game stream. Each text
// message may carry several newline-separated lines; commands are sent as one
// text message each.
type WSConn struct {
	url  string
	conn *websocket.Conn

	writeMu sync.Mutex
	once    sync.Once
}

// DialWebsocket connects to url, a ws:// or wss:// address.
func DialWebsocket(ctx context.Context, url string, timeout time.Duration) (*WSConn, error) {
	dialer := *websocket.DefaultDialer
	if timeout > 0 {
		dialer.HandshakeTimeout = timeout
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.NewTransportError("dial failed", errors.Join(errors.ErrTransportUnavailable, err)).
			WithKind("websocket").
			WithEndpoint(url)
	}
	return &WSConn{url: url, conn: conn}, nil
}

// Run emits lines from incoming messages until the peer closes the socket or
// ctx is cancelled. A normal close returns nil.
func (c *WSConn) Run(ctx context.Context, emit func(string)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	var pending []byte
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if len(pending) > 0 {
					emit(strings.TrimRight(string(pending), "\r"))
				}
				return nil
			}
			return errors.NewTransportError("read failed", err).
				WithKind("websocket").
				WithEndpoint(c.url)
		}
		pending = splitLines(append(pending, data...), emit)
	}
}

// Send writes command as a single text message.
func (c *WSConn) Send(ctx context.Context, command string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer func() { _ = c.conn.SetWriteDeadline(time.Time{}) }()
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(command+"\n")); err != nil {
		return errors.NewTransportError("write failed", errors.Join(errors.ErrTransportClosed, err)).
			WithKind("websocket").
			WithEndpoint(c.url)
	}
	return nil
}

// Close sends a close frame and closes the socket. It is safe to call more
// than once.
func (c *WSConn) Close() error {
	var err error
	c.once.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}
