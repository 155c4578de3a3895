package log

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a CBOR event log.
// It is safe for concurrent use.
//
// Write failures do not reach the tracker. The first one is kept, later
// events are dropped, and Close reports it.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	written int
	err     error
	closed  bool
}

// NewFileLogger opens path for appending, creating the file and its parent
// directory as needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{file: f, encoder: NewEncoder(f)}, nil
}

// Log appends event to the file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.err != nil {
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.err = err
		return
	}
	l.written++
}

// Written returns the number of events appended by this logger.
func (l *FileLogger) Written() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Err returns the first write error.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close syncs and closes the file and returns the first write error, if
// any. Closing twice is a no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return errors.Join(l.err, l.file.Sync(), l.file.Close())
}

var _ Logger = (*FileLogger)(nil)
