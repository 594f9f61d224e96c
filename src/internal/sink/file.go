// FILE: tplog/src/internal/sink/file.go
package sink

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

const (
	FilePerm = fs.FileMode(0644)
	DirPerm  = fs.FileMode(0755)

	defaultFileBufferSize = 64 * 1024
)

// FileSink writes records through a buffered writer to a regular file
type FileSink struct {
	base
	path       string
	bufferSize int
	logger     *log.Logger

	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// EnsureDir creates the parent directory of path, recursively and idempotently
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return err
	}
	return nil
}

// NewFileSink opens path in append mode, creating parent directories as needed
func NewFileSink(path string, bufferSize int, logger *log.Logger) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("file sink requires a path")
	}
	if bufferSize <= 0 {
		bufferSize = defaultFileBufferSize
	}

	fsink := &FileSink{
		path:       path,
		bufferSize: bufferSize,
		logger:     logger,
	}
	fsink.initBase()

	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("failed to create directory for log file '%s': %w", path, err)
	}

	file, err := openLogFile(path, core.ReopenAppend)
	if err != nil {
		return nil, err
	}
	fsink.file = file
	fsink.writer = bufio.NewWriterSize(file, bufferSize)

	return fsink, nil
}

func openLogFile(path string, mode core.ReopenMode) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if mode == core.ReopenTruncate {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, FilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}

	// Umask may have narrowed the bits on create
	if err := file.Chmod(FilePerm); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to set permissions on '%s': %w", path, err)
	}
	return file, nil
}

func (f *FileSink) Write(rec core.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	n, err := f.writer.Write(rec.Payload)
	f.recordWrite(n, err)
	if err != nil {
		return fmt.Errorf("write to '%s' failed: %w", f.path, err)
	}
	return nil
}

func (f *FileSink) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := f.writer.Flush(); err != nil {
		return fmt.Errorf("flush of '%s' failed: %w", f.path, err)
	}
	return nil
}

// Reopen flushes pending bytes to the current descriptor then swaps in a freshly opened one.
// On failure the old descriptor stays in place so the sink remains writable.
func (f *FileSink) Reopen(mode core.ReopenMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	if err := f.writer.Flush(); err != nil {
		f.logger.Warn("msg", "Flush before reopen failed, buffered data discarded",
			"component", "file_sink",
			"path", f.path,
			"error", err)
		f.writer.Reset(f.file)
	}

	if err := EnsureDir(f.path); err != nil {
		return fmt.Errorf("failed to create directory for log file '%s': %w", f.path, err)
	}

	file, err := openLogFile(f.path, mode)
	if err != nil {
		return err
	}

	if err := f.file.Close(); err != nil {
		f.logger.Debug("msg", "Closing rotated file descriptor failed",
			"component", "file_sink",
			"path", f.path,
			"error", err)
	}

	f.file = file
	f.writer.Reset(file)
	f.totalReopens.Add(1)
	return nil
}

func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	f.closed = true

	flushErr := f.writer.Flush()
	closeErr := f.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flush of '%s' on close failed: %w", f.path, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close of '%s' failed: %w", f.path, closeErr)
	}
	return nil
}

// Path returns the configured file path
func (f *FileSink) Path() string {
	return f.path
}

func (f *FileSink) GetStats() SinkStats {
	f.mu.Lock()
	buffered := f.writer.Buffered()
	f.mu.Unlock()

	return f.stats("file", f.path, map[string]any{
		"buffered_bytes": buffered,
	})
}
