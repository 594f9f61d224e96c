// FILE: tplog/src/internal/sink/console.go
package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

// StreamSink writes to a stream it does not own, such as stderr or stdout.
// Reopen is a no-op and Close never closes the descriptor.
type StreamSink struct {
	base
	target string
	output io.Writer
	logger *log.Logger

	mu     sync.Mutex
	closed bool
}

// NewStreamSink creates a sink for "stderr" or "stdout"
func NewStreamSink(target string, logger *log.Logger) (*StreamSink, error) {
	var output io.Writer
	switch target {
	case "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		return nil, fmt.Errorf("unknown stream target: %s", target)
	}
	return NewWriterSink(target, output, logger), nil
}

// NewWriterSink wraps an arbitrary unowned writer
func NewWriterSink(target string, output io.Writer, logger *log.Logger) *StreamSink {
	s := &StreamSink{
		target: target,
		output: output,
		logger: logger,
	}
	s.initBase()
	return s
}

func (s *StreamSink) Write(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	n, err := s.output.Write(rec.Payload)
	if err == nil && n != len(rec.Payload) {
		err = fmt.Errorf("partial write: %d/%d bytes", n, len(rec.Payload))
	}
	s.recordWrite(n, err)
	if err != nil {
		return fmt.Errorf("write to %s failed: %w", s.target, err)
	}
	return nil
}

// Unbuffered, nothing to flush
func (s *StreamSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *StreamSink) Reopen(mode core.ReopenMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *StreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}

func (s *StreamSink) GetStats() SinkStats {
	return s.stats("stream", s.target, nil)
}
