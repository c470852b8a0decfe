package session

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

// maxLineSize bounds a single server line. Room descriptions with many
// entities run long, so the bufio default of 64KB is raised.
const maxLineSize = 1024 * 1024

// ReaderSource emits the lines of an io.Reader. It backs stdin and replay of
// a captured log file.
type ReaderSource struct {
	r    io.Reader
	name string
}

// NewReaderSource wraps r. name identifies the reader in errors.
func NewReaderSource(r io.Reader, name string) *ReaderSource {
	return &ReaderSource{r: r, name: name}
}

// Run scans r until EOF or until ctx is cancelled. Cancellation is checked
// between lines; a blocked Read is not interrupted.
func (s *ReaderSource) Run(ctx context.Context, emit func(string)) error {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return errors.NewTransportError("read failed", err).
			WithKind("reader").
			WithEndpoint(s.name)
	}
	return nil
}

// splitLines feeds each complete line in buf to emit and returns the
// unterminated remainder.
func splitLines(buf []byte, emit func(string)) []byte {
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			return buf
		}
		emit(strings.TrimRight(string(buf[:i]), "\r"))
		buf = buf[i+1:]
	}
}
