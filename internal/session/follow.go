package session

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/logging"
)

// Follower tails a log file that a game client appends to, like tail -F.
// It watches the file's directory so it survives the client rotating or
// recreating the log.
type Follower struct {
	path      string
	fromStart bool
	logger    *logging.Logger
}

// NewFollower returns a Follower for path. When fromStart is false only lines
// written after Run starts are emitted.
func NewFollower(path string, fromStart bool) *Follower {
	return &Follower{
		path:      filepath.Clean(path),
		fromStart: fromStart,
		logger:    logging.NopLogger(),
	}
}

// SetLogger sets the logger. A nil logger is ignored.
func (f *Follower) SetLogger(logger *logging.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// Run emits appended lines until ctx is cancelled or the watcher fails.
// A trailing line without a newline is held until it is completed.
func (f *Follower) Run(ctx context.Context, emit func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return f.transportError("create watcher", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return f.transportError("watch directory", err)
	}

	t := &tail{emit: emit}
	defer t.close()

	if err := t.open(f.path, !f.fromStart); err != nil && !os.IsNotExist(err) {
		return f.transportError("open", err)
	}
	if err := t.drain(); err != nil {
		return f.transportError("read", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.NewTransportError("watcher closed", errors.ErrTransportClosed).
					WithKind("follow").
					WithEndpoint(f.path)
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}

			switch {
			case ev.Op&fsnotify.Create != 0:
				f.logger.Debug("followed file recreated", "path", f.path)
				t.close()
				if err := t.open(f.path, false); err != nil {
					if os.IsNotExist(err) {
						continue
					}
					return f.transportError("reopen", err)
				}
				if err := t.drain(); err != nil {
					return f.transportError("read", err)
				}
			case ev.Op&fsnotify.Write != 0:
				if err := t.drain(); err != nil {
					return f.transportError("read", err)
				}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				f.logger.Debug("followed file removed", "path", f.path)
				if err := t.drain(); err != nil {
					return f.transportError("read", err)
				}
				t.close()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return f.transportError("watch", err)
		}
	}
}

func (f *Follower) transportError(op string, err error) error {
	return errors.NewTransportError(op+" failed", err).
		WithKind("follow").
		WithEndpoint(f.path)
}

// tail reads from the current position of an open file and splits what it
// reads into lines.
type tail struct {
	file    *os.File
	offset  int64
	pending []byte
	emit    func(string)
}

func (t *tail) open(path string, atEnd bool) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	t.file = file
	t.offset = 0
	t.pending = t.pending[:0]
	if atEnd {
		off, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			_ = file.Close()
			t.file = nil
			return err
		}
		t.offset = off
	}
	return nil
}

func (t *tail) drain() error {
	if t.file == nil {
		return nil
	}

	// The client truncated the log in place.
	if info, err := t.file.Stat(); err == nil && info.Size() < t.offset {
		if _, err := t.file.Seek(0, io.SeekStart); err != nil {
			return err
		}
		t.offset = 0
		t.pending = t.pending[:0]
	}

	buf := make([]byte, 32*1024)
	for {
		n, err := t.file.Read(buf)
		if n > 0 {
			t.offset += int64(n)
			t.pending = splitLines(append(t.pending, buf[:n]...), t.emit)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (t *tail) close() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}
