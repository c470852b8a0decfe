package session

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/logging"
)

// Transport kinds accepted by Open.
const (
	KindStdin     = "stdin"
	KindFile      = "file"
	KindFollow    = "follow"
	KindTCP       = "tcp"
	KindWebsocket = "websocket"
	KindExec      = "exec"
)

// Kinds lists every transport kind Open understands.
func Kinds() []string {
	return []string{KindStdin, KindFile, KindFollow, KindTCP, KindWebsocket, KindExec}
}

// Options selects and configures a transport.
type Options struct {
	Kind string

	// Path is the log file for file and follow.
	Path string
	// FromStart makes follow emit the existing contents before tailing.
	FromStart bool

	// Address is host:port for tcp.
	Address string
	// URL is the ws:// or wss:// endpoint for websocket.
	URL string
	// ExecCommand is the client command line for exec.
	ExecCommand []string

	// TmuxTarget, when set, sends commands for read-only kinds through
	// tmux send-keys.
	TmuxTarget string
	TmuxSocket string

	DialTimeout time.Duration

	// Stdin overrides os.Stdin for the stdin kind.
	Stdin io.Reader

	Logger *logging.Logger
}

// Session is an opened transport: where lines come from, where commands go,
// and what to close afterwards.
type Session struct {
	Kind string
	Source
	Commander

	closer io.Closer
}

// Close releases the transport.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open builds the transport described by opts. Network and exec transports
// connect before Open returns.
func Open(ctx context.Context, opts Options) (*Session, error) {
	switch opts.Kind {
	case KindStdin, "":
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		return &Session{
			Kind:      KindStdin,
			Source:    NewReaderSource(r, "stdin"),
			Commander: readOnlyCommander(opts, ReadOnly{}),
		}, nil

	case KindFile:
		f, err := os.Open(opts.Path)
		if err != nil {
			return nil, errors.NewTransportError("open failed", err).
				WithKind(KindFile).
				WithEndpoint(opts.Path).
				WithRetryable(false)
		}
		return &Session{
			Kind:      KindFile,
			Source:    NewReaderSource(f, opts.Path),
			Commander: readOnlyCommander(opts, ReadOnly{}),
			closer:    f,
		}, nil

	case KindFollow:
		if opts.Path == "" {
			return nil, errors.NewValidationError("follow needs a path").WithField("transport.path")
		}
		follower := NewFollower(opts.Path, opts.FromStart)
		follower.SetLogger(opts.Logger)
		// Without tmux the player types the probe themselves; Check still
		// waits for the reply.
		return &Session{
			Kind:      KindFollow,
			Source:    follower,
			Commander: readOnlyCommander(opts, NopCommander{}),
		}, nil

	case KindTCP:
		conn, err := DialTCP(ctx, opts.Address, opts.DialTimeout)
		if err != nil {
			return nil, err
		}
		return &Session{Kind: KindTCP, Source: conn, Commander: conn, closer: conn}, nil

	case KindWebsocket:
		conn, err := DialWebsocket(ctx, opts.URL, opts.DialTimeout)
		if err != nil {
			return nil, err
		}
		return &Session{Kind: KindWebsocket, Source: conn, Commander: conn, closer: conn}, nil

	case KindExec:
		conn, err := StartExec(ctx, opts.ExecCommand)
		if err != nil {
			return nil, err
		}
		return &Session{Kind: KindExec, Source: conn, Commander: conn, closer: conn}, nil

	default:
		return nil, errors.NewTransportError("unknown kind "+opts.Kind, errors.ErrUnsupportedTransport).
			WithKind(opts.Kind).
			WithRetryable(false)
	}
}

func readOnlyCommander(opts Options, fallback Commander) Commander {
	if opts.TmuxTarget != "" {
		return NewTmuxCommander(opts.TmuxTarget, opts.TmuxSocket)
	}
	return fallback
}
