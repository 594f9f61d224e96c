// FILE: tplog/src/internal/admin/server.go
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"tplog/src/internal/config"
	"tplog/src/internal/core"
	"tplog/src/internal/stats"
	"tplog/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/time/rate"
)

const (
	requestTimeout  = 10 * time.Second
	metricNamespace = "tplog"
)

// Controller is the registry surface exposed over HTTP
type Controller interface {
	FlushAll(ctx context.Context) error
	ReopenAll(ctx context.Context, mode core.ReopenMode) error
	SetDebugCapture(enabled bool) error
	GetStatistics() map[string]stats.Snapshot
}

// Server is the HTTP control endpoint for statistics, flush, reopen and debug capture
type Server struct {
	addr    string
	ctrl    Controller
	server  *fasthttp.Server
	limiter *rate.Limiter
	tokens  *TokenValidator
	metrics fasthttp.RequestHandler
	logger  *log.Logger

	startTime time.Time
	requests  atomic.Uint64
	rejected  atomic.Uint64
	failed    atomic.Uint64
}

// NewServer creates an admin server; nothing listens until Start or Serve
func NewServer(cfg *config.AdminConfig, ctrl Controller, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("admin config is nil")
	}
	if ctrl == nil {
		return nil, errors.New("admin controller is nil")
	}

	s := &Server{
		addr:      cfg.Addr,
		ctrl:      ctrl,
		logger:    logger,
		startTime: time.Now(),
	}

	if cfg.JWTSecret != "" {
		tokens, err := NewTokenValidator(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		s.tokens = tokens
	}

	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.Burst))
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(stats.NewCollector(metricNamespace, ctrl.GetStatistics)); err != nil {
		return nil, fmt.Errorf("failed to register metrics collector: %w", err)
	}
	s.metrics = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.server = &fasthttp.Server{
		Name:             "tplog-admin",
		Handler:          s.Handler(),
		Logger:           compat.NewFastHTTPAdapter(logger),
		ReadTimeout:      requestTimeout,
		WriteTimeout:     requestTimeout,
		CloseOnShutdown:  true,
		DisableKeepalive: false,
	}

	return s, nil
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("admin server failed to listen on %s: %w", s.addr, err)
	}

	go func() {
		if err := s.Serve(ln); err != nil {
			s.logger.Error("msg", "Admin server failed",
				"component", "admin",
				"addr", s.addr,
				"error", err)
		}
	}()
	return nil
}

// Serve handles requests from ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("msg", "Admin server listening",
		"component", "admin",
		"addr", ln.Addr().String(),
		"auth", s.tokens != nil)
	return s.server.Serve(ln)
}

// Shutdown stops accepting requests and closes open connections
func (s *Server) Shutdown() error {
	if err := s.server.Shutdown(); err != nil {
		return fmt.Errorf("admin server shutdown: %w", err)
	}
	s.logger.Info("msg", "Admin server stopped", "component", "admin")
	return nil
}

// GetStats returns request counters
func (s *Server) GetStats() map[string]any {
	return map[string]any{
		"addr":           s.addr,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"requests":       s.requests.Load(),
		"rejected":       s.rejected.Load(),
		"failed":         s.failed.Load(),
		"auth_enabled":   s.tokens != nil,
	}
}

// Handler returns the routing request handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.requestHandler
}

func (s *Server) requestHandler(ctx *fasthttp.RequestCtx) {
	s.requests.Add(1)

	if s.limiter != nil && !s.limiter.Allow() {
		s.rejected.Add(1)
		s.writeError(ctx, fasthttp.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	if s.tokens != nil {
		if err := s.tokens.Validate(string(ctx.Request.Header.Peek("Authorization"))); err != nil {
			s.rejected.Add(1)
			s.logger.Warn("msg", "Admin request unauthorized",
				"component", "admin",
				"remote_addr", ctx.RemoteAddr().String(),
				"error", err)
			ctx.Response.Header.Set("WWW-Authenticate", `Bearer realm="tplog"`)
			s.writeError(ctx, fasthttp.StatusUnauthorized, "unauthorized")
			return
		}
	}

	path := string(ctx.Path())
	s.logger.Debug("msg", "Admin request",
		"component", "admin",
		"method", string(ctx.Method()),
		"path", path)

	switch path {
	case "/stats":
		s.handleStats(ctx)
	case "/flush":
		s.handleFlush(ctx)
	case "/reopen":
		s.handleReopen(ctx)
	case "/debug-capture":
		s.handleDebugCapture(ctx)
	case "/metrics":
		if !s.requireMethod(ctx, fasthttp.MethodGet) {
			return
		}
		s.metrics(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	if !s.requireMethod(ctx, fasthttp.MethodGet) {
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"service": "tplog",
		"version": version.Short(),
		"loggers": s.ctrl.GetStatistics(),
	})
}

func (s *Server) handleFlush(ctx *fasthttp.RequestCtx) {
	if !s.requireMethod(ctx, fasthttp.MethodPost) {
		return
	}

	opCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := s.ctrl.FlushAll(opCtx); err != nil {
		s.failed.Add(1)
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "flushed"})
}

func (s *Server) handleReopen(ctx *fasthttp.RequestCtx) {
	if !s.requireMethod(ctx, fasthttp.MethodPost) {
		return
	}

	mode, err := core.ParseReopenMode(string(ctx.QueryArgs().Peek("mode")))
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	opCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := s.ctrl.ReopenAll(opCtx, mode); err != nil {
		s.failed.Add(1)
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "reopened", "mode": mode.String()})
}

func (s *Server) handleDebugCapture(ctx *fasthttp.RequestCtx) {
	if !s.requireMethod(ctx, fasthttp.MethodPost) {
		return
	}

	enabled, err := strconv.ParseBool(string(ctx.QueryArgs().Peek("enabled")))
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "query parameter 'enabled' must be true or false")
		return
	}

	if err := s.ctrl.SetDebugCapture(enabled); err != nil {
		s.failed.Add(1)
		s.writeError(ctx, fasthttp.StatusConflict, err.Error())
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]any{"debug_capture": enabled})
}

func (s *Server) requireMethod(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	return false
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		s.logger.Warn("msg", "Failed to encode admin response",
			"component", "admin",
			"error", err)
	}
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	s.writeJSON(ctx, status, map[string]string{"error": msg})
}
