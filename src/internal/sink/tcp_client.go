// FILE: tplog/src/internal/sink/tcp_client.go
package sink

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

// SocketConfig holds socket sink configuration
type SocketConfig struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	KeepAlive    time.Duration

	// Reconnection settings
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	ReconnectBackoff  float64
}

// DefaultSocketConfig returns the settings used by the factory
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		DialTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		KeepAlive:         30 * time.Second,
		ReconnectDelay:    100 * time.Millisecond,
		MaxReconnectDelay: 10 * time.Second,
		ReconnectBackoff:  2,
	}
}

// SocketSink streams records over a unix-domain or TCP connection.
// The connection is dialed lazily on write; Reopen drops it so the next write reconnects.
type SocketSink struct {
	base
	network string // "unix" or "tcp"
	address string
	config  SocketConfig
	logger  *log.Logger

	mu          sync.Mutex
	conn        net.Conn
	closed      bool
	retryAt     time.Time
	retryDelay  time.Duration
	lastConnErr error

	totalReconnects atomic.Uint64
}

// NewUnixSocketSink creates a sink writing to the unix-domain socket at path
func NewUnixSocketSink(path string, cfg SocketConfig, logger *log.Logger) (*SocketSink, error) {
	if path == "" {
		return nil, fmt.Errorf("unix socket sink requires a socket path")
	}
	return newSocketSink("unix", path, cfg, logger), nil
}

// NewTCPSocketSink resolves host:port once and creates a sink writing to it
func NewTCPSocketSink(host string, port int, cfg SocketConfig, logger *log.Logger) (*SocketSink, error) {
	hostPort := net.JoinHostPort(host, strconv.Itoa(port))
	addr, err := net.ResolveTCPAddr("tcp", hostPort)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", hostPort, err)
	}
	return newSocketSink("tcp", addr.String(), cfg, logger), nil
}

func newSocketSink(network, address string, cfg SocketConfig, logger *log.Logger) *SocketSink {
	if cfg.ReconnectBackoff < 1.0 {
		cfg.ReconnectBackoff = 1.0
	}
	s := &SocketSink{
		network:    network,
		address:    address,
		config:     cfg,
		logger:     logger,
		retryDelay: cfg.ReconnectDelay,
	}
	s.initBase()
	return s
}

func (s *SocketSink) Write(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if s.conn == nil {
		if err := s.connectLocked(); err != nil {
			s.recordWrite(0, err)
			return err
		}
	}

	// Set write deadline
	if s.config.WriteTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout)); err != nil {
			s.dropLocked()
			s.recordWrite(0, err)
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	n, err := s.conn.Write(rec.Payload)
	if err == nil && n != len(rec.Payload) {
		err = fmt.Errorf("partial write: %d/%d bytes", n, len(rec.Payload))
	}
	s.recordWrite(n, err)
	if err != nil {
		// Connection error, it will be reconnected on the next write
		s.dropLocked()
		return fmt.Errorf("write to %s://%s failed: %w", s.network, s.address, err)
	}
	return nil
}

// connectLocked dials unless the backoff window is still open
func (s *SocketSink) connectLocked() error {
	now := time.Now()
	if now.Before(s.retryAt) {
		return fmt.Errorf("not connected to %s://%s: %v", s.network, s.address, s.lastConnErr)
	}

	dialer := &net.Dialer{
		Timeout:   s.config.DialTimeout,
		KeepAlive: s.config.KeepAlive,
	}

	conn, err := dialer.Dial(s.network, s.address)
	if err != nil {
		s.lastConnErr = err
		s.retryAt = now.Add(s.retryDelay)

		// Exponential backoff
		s.retryDelay = time.Duration(float64(s.retryDelay) * s.config.ReconnectBackoff)
		if s.retryDelay > s.config.MaxReconnectDelay {
			s.retryDelay = s.config.MaxReconnectDelay
		}
		return fmt.Errorf("failed to connect to %s://%s: %w", s.network, s.address, err)
	}

	s.conn = conn
	s.lastConnErr = nil
	s.retryAt = time.Time{}
	s.retryDelay = s.config.ReconnectDelay
	s.totalReconnects.Add(1)

	s.logger.Debug("msg", "Socket sink connected",
		"component", "socket_sink",
		"network", s.network,
		"address", s.address)
	return nil
}

func (s *SocketSink) dropLocked() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

// Writes are unbuffered, nothing to flush
func (s *SocketSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return nil
}

// Reopen drops the connection and clears the backoff so the next write dials at once
func (s *SocketSink) Reopen(mode core.ReopenMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.dropLocked()
	s.retryAt = time.Time{}
	s.retryDelay = s.config.ReconnectDelay
	s.totalReopens.Add(1)
	return nil
}

func (s *SocketSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.dropLocked()
	return nil
}

// Network returns "unix" or "tcp"
func (s *SocketSink) Network() string {
	return s.network
}

// Address returns the resolved address or socket path
func (s *SocketSink) Address() string {
	return s.address
}

func (s *SocketSink) GetStats() SinkStats {
	s.mu.Lock()
	connected := s.conn != nil
	lastErr := ""
	if s.lastConnErr != nil {
		lastErr = s.lastConnErr.Error()
	}
	s.mu.Unlock()

	return s.stats(s.network+"_socket", s.address, map[string]any{
		"connected":        connected,
		"total_reconnects": s.totalReconnects.Load(),
		"last_error":       lastErr,
	})
}
