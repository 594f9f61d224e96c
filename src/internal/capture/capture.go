// FILE: tplog/src/internal/capture/capture.go
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/gnet/v2"
)

const startTimeout = 5 * time.Second

// ErrNotStarted is returned by Stop on a server that never booted
var ErrNotStarted = errors.New("capture server not started")

// Server collects newline-delimited records sent by testsuite capture sinks
type Server struct {
	addr   string
	logger *log.Logger
	onLine func(line string)

	engine   gnet.Engine
	engineMu sync.Mutex
	booted   chan struct{}
	runErr   chan error

	mu      sync.Mutex
	lines   []string
	changed chan struct{}

	activeConns atomic.Int64
	totalConns  atomic.Uint64
	totalLines  atomic.Uint64
}

// NewServer creates a capture server listening on addr ("host:port")
func NewServer(addr string, logger *log.Logger) *Server {
	return &Server{
		addr:    addr,
		logger:  logger,
		booted:  make(chan struct{}),
		runErr:  make(chan error, 1),
		changed: make(chan struct{}),
	}
}

// OnLine registers a callback invoked from the event loop for every received line.
// It must be set before Start.
func (s *Server) OnLine(fn func(line string)) {
	s.onLine = fn
}

// Start runs the gnet engine and returns once it is accepting connections
func (s *Server) Start(ctx context.Context) error {
	handler := &captureHandler{server: s}

	go func() {
		s.logger.Info("msg", "Starting capture server",
			"component", "capture",
			"addr", s.addr)

		err := gnet.Run(handler, "tcp://"+s.addr,
			gnet.WithLogger(compat.NewGnetAdapter(s.logger)),
			gnet.WithMulticore(false),
			gnet.WithReuseAddr(true),
		)
		if err != nil {
			s.logger.Error("msg", "Capture server failed",
				"component", "capture",
				"addr", s.addr,
				"error", err)
		}
		s.runErr <- err
	}()

	timer := time.NewTimer(startTimeout)
	defer timer.Stop()

	select {
	case <-s.booted:
		s.logger.Debug("msg", "Capture server started", "component", "capture", "addr", s.addr)
		return nil
	case err := <-s.runErr:
		if err == nil {
			err = fmt.Errorf("capture server on %s exited during startup", s.addr)
		}
		return err
	case <-timer.C:
		return fmt.Errorf("capture server startup timeout on %s", s.addr)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.addr
}

// Lines returns a copy of every line received so far
func (s *Server) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Reset discards the collected lines
func (s *Server) Reset() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// WaitFor blocks until a received line contains substr and returns that line
func (s *Server) WaitFor(ctx context.Context, substr string) (string, error) {
	seen := 0
	for {
		s.mu.Lock()
		for ; seen < len(s.lines); seen++ {
			if strings.Contains(s.lines[seen], substr) {
				line := s.lines[seen]
				s.mu.Unlock()
				return line, nil
			}
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for %q: %w", substr, ctx.Err())
		}
	}
}

// Stop shuts the engine down and waits for it to exit
func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.booted:
	default:
		return ErrNotStarted
	}

	s.engineMu.Lock()
	eng := s.engine
	s.engineMu.Unlock()

	if err := eng.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop capture server: %w", err)
	}

	select {
	case <-s.runErr:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("msg", "Capture server stopped",
		"component", "capture",
		"lines", s.totalLines.Load())
	return nil
}

// GetStats returns connection and line counters
func (s *Server) GetStats() map[string]any {
	return map[string]any{
		"addr":               s.addr,
		"active_connections": s.activeConns.Load(),
		"total_connections":  s.totalConns.Load(),
		"total_lines":        s.totalLines.Load(),
	}
}

func (s *Server) appendLine(line string) {
	s.totalLines.Add(1)

	s.mu.Lock()
	s.lines = append(s.lines, line)
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()

	if s.onLine != nil {
		s.onLine(line)
	}
}

// captureHandler implements gnet.EventHandler for the capture server
type captureHandler struct {
	gnet.BuiltinEventEngine
	server *Server
}

// connState holds the unterminated tail of a connection's stream
type connState struct {
	partial bytes.Buffer
}

func (h *captureHandler) OnBoot(eng gnet.Engine) gnet.Action {
	h.server.engineMu.Lock()
	h.server.engine = eng
	h.server.engineMu.Unlock()
	close(h.server.booted)
	return gnet.None
}

func (h *captureHandler) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	c.SetContext(&connState{})
	n := h.server.activeConns.Add(1)
	h.server.totalConns.Add(1)

	h.server.logger.Debug("msg", "Capture connection opened",
		"component", "capture",
		"remote_addr", c.RemoteAddr().String(),
		"active_connections", n)
	return nil, gnet.None
}

func (h *captureHandler) OnClose(c gnet.Conn, err error) gnet.Action {
	if st, ok := c.Context().(*connState); ok && st.partial.Len() > 0 {
		h.server.appendLine(st.partial.String())
		st.partial.Reset()
	}

	n := h.server.activeConns.Add(-1)
	h.server.logger.Debug("msg", "Capture connection closed",
		"component", "capture",
		"remote_addr", c.RemoteAddr().String(),
		"active_connections", n,
		"error", err)
	return gnet.None
}

func (h *captureHandler) OnTraffic(c gnet.Conn) gnet.Action {
	st, ok := c.Context().(*connState)
	if !ok {
		st = &connState{}
		c.SetContext(st)
	}

	data, err := c.Next(-1)
	if err != nil {
		h.server.logger.Warn("msg", "Capture read failed",
			"component", "capture",
			"remote_addr", c.RemoteAddr().String(),
			"error", err)
		return gnet.Close
	}

	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			st.partial.Write(data)
			break
		}
		st.partial.Write(data[:idx])
		h.server.appendLine(st.partial.String())
		st.partial.Reset()
		data = data[idx+1:]
	}
	return gnet.None
}
