// FILE: tplog/src/internal/sink/null.go
package sink

import (
	"sync"

	"tplog/src/internal/core"
)

// NullSink accepts and discards every record
type NullSink struct {
	base
	mu     sync.Mutex
	closed bool
}

func NewNullSink() *NullSink {
	s := &NullSink{}
	s.initBase()
	return s
}

func (s *NullSink) Write(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.recordWrite(len(rec.Payload), nil)
	return nil
}

func (s *NullSink) Flush() error { return nil }

func (s *NullSink) Reopen(core.ReopenMode) error { return nil }

func (s *NullSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}

func (s *NullSink) GetStats() SinkStats {
	return s.stats("null", NullPath, nil)
}
