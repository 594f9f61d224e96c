// FILE: tplog/src/internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tplog/src/internal/config"
	"tplog/src/internal/core"
	"tplog/src/internal/engine"
	"tplog/src/internal/executor"
	"tplog/src/internal/sink"
	"tplog/src/internal/stats"

	"github.com/lixenwraith/log"
)

// ErrNoCaptureSink is returned by SetDebugCapture when the default logger has no capture sink
var ErrNoCaptureSink = errors.New("testsuite capture sink is not configured")

const (
	poolReleaseTimeout  = 5 * time.Second
	captureFlushTimeout = 5 * time.Second
)

// Registry owns the named logger engines, their task processors and the periodic tasks around them
type Registry struct {
	engines     map[string]*engine.Engine
	defaultName string
	capture     sink.Sink
	mu          sync.RWMutex

	pools  map[string]*executor.Pool
	fsPool *executor.Pool

	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger

	flushMu     sync.Mutex
	flushCancel context.CancelFunc
	flushDone   chan struct{}

	rotationMu     sync.Mutex
	rotationCancel context.CancelFunc
	rotationDone   chan struct{}

	shutdownOnce sync.Once
}

// NewRegistry creates an empty registry without task processors.
// Engines registered on it run their consumers on dedicated goroutines.
func NewRegistry(ctx context.Context, logger *log.Logger) *Registry {
	regCtx, cancel := context.WithCancel(ctx)
	return &Registry{
		engines: make(map[string]*engine.Engine),
		pools:   make(map[string]*executor.Pool),
		ctx:     regCtx,
		cancel:  cancel,
		logger:  logger,
	}
}

// New builds every task processor and logger named by cfg and installs the default logger.
// Any failure stops whatever was already built.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Registry, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	r := NewRegistry(ctx, logger)
	r.defaultName = cfg.DefaultLogger

	for _, tp := range cfg.TaskProcessors {
		pool, err := executor.New(tp.Name, int(tp.WorkerThreads), logger)
		if err != nil {
			r.Shutdown()
			return nil, err
		}
		r.pools[tp.Name] = pool
	}
	r.fsPool = r.pools[cfg.FSTaskProcessor]

	for i := range cfg.Loggers {
		lc := &cfg.Loggers[i]
		if err := r.buildLogger(cfg, lc); err != nil {
			logger.Error("msg", "Failed to build logger",
				"component", "service",
				"logger", lc.Name,
				"error", err)
			r.Shutdown()
			return nil, err
		}
	}

	def, ok := r.Get(cfg.DefaultLogger)
	if !ok {
		r.Shutdown()
		return nil, fmt.Errorf("default logger '%s' not found", cfg.DefaultLogger)
	}
	engine.SetDefault(def)

	logger.Info("msg", "Logger registry started",
		"component", "service",
		"loggers", len(cfg.Loggers),
		"task_processors", len(cfg.TaskProcessors),
		"default_logger", cfg.DefaultLogger)
	return r, nil
}

// Register builds an engine from opts under name, starts it and adds it to the registry
func (r *Registry) Register(name string, opts engine.Options) (*engine.Engine, error) {
	opts.Name = name
	if opts.Logger == nil {
		opts.Logger = r.logger
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; exists {
		return nil, fmt.Errorf("duplicate logger '%s'", name)
	}

	e, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	if err := e.Start(); err != nil {
		e.Stop()
		return nil, err
	}

	r.engines[name] = e
	r.logger.Debug("msg", "Logger registered",
		"component", "service",
		"logger", name)
	return e, nil
}

// Get returns the engine registered under name
func (r *Registry) Get(name string) (*engine.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[name]
	return e, ok
}

// GetRequired is Get returning an error for an unknown name
func (r *Registry) GetRequired(name string) (*engine.Engine, error) {
	e, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("logger '%s' not found", name)
	}
	return e, nil
}

// Default returns the default logger, nil when the registry has none
func (r *Registry) Default() *engine.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engines[r.defaultName]
}

// Names returns the registered logger names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// snapshot returns the engines in name order without holding the lock afterwards
func (r *Registry) snapshot() []*engine.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engines := make([]*engine.Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i].Name() < engines[j].Name() })
	return engines
}

// FlushAll flushes every logger and joins the failures
func (r *Registry) FlushAll(ctx context.Context) error {
	var errs []error
	for _, e := range r.snapshot() {
		if err := e.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetDebugCapture raises the capture sink to Trace when enabled and silences it otherwise
func (r *Registry) SetDebugCapture(enabled bool) error {
	r.mu.RLock()
	capture := r.capture
	r.mu.RUnlock()

	if capture == nil {
		return ErrNoCaptureSink
	}

	level := core.LevelNone
	if enabled {
		level = core.LevelTrace
	} else if def := r.Default(); def != nil {
		// Records already queued for the capture sink go out before it falls silent
		ctx, cancel := context.WithTimeout(r.ctx, captureFlushTimeout)
		err := def.Flush(ctx)
		cancel()
		if err != nil {
			r.logger.Warn("msg", "Failed to flush before disabling debug capture",
				"component", "service",
				"error", err)
		}
	}
	capture.SetLevel(level)

	r.logger.Info("msg", "Debug capture changed",
		"component", "service",
		"enabled", enabled)
	return nil
}

// GetStatistics returns a counter snapshot per logger
func (r *Registry) GetStatistics() map[string]stats.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]stats.Snapshot, len(r.engines))
	for name, e := range r.engines {
		result[name] = e.Stats()
	}
	return result
}

// GetGlobalStats returns logger, sink and task processor details for status output
func (r *Registry) GetGlobalStats() map[string]any {
	engines := r.snapshot()

	loggers := make(map[string]any, len(engines))
	for _, e := range engines {
		sinks := make([]sink.SinkStats, 0, len(e.Sinks()))
		for _, s := range e.Sinks() {
			sinks = append(sinks, s.GetStats())
		}
		loggers[e.Name()] = map[string]any{
			"state":      e.State().String(),
			"level":      e.Level().String(),
			"overflow":   e.Overflow().String(),
			"queue_len":  e.QueueLen(),
			"queue_cap":  e.QueueCap(),
			"statistics": e.Stats(),
			"sinks":      sinks,
		}
	}

	r.mu.RLock()
	pools := make(map[string]any, len(r.pools))
	for name, p := range r.pools {
		pools[name] = p.Stats()
	}
	r.mu.RUnlock()

	return map[string]any{
		"loggers":         loggers,
		"total_loggers":   len(engines),
		"task_processors": pools,
	}
}

// Shutdown stops the periodic tasks, then every logger, then clears the default slot
// and releases the task processors. Later calls are no-ops.
func (r *Registry) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.logger.Info("msg", "Logger registry shutdown initiated", "component", "service")

		r.stopRotationListener()
		r.StopFlushScheduler()

		engines := r.snapshot()
		var wg sync.WaitGroup
		for _, e := range engines {
			wg.Add(1)
			go func(e *engine.Engine) {
				defer wg.Done()
				e.Stop()
			}(e)
		}
		wg.Wait()

		r.mu.RLock()
		def := r.engines[r.defaultName]
		r.mu.RUnlock()
		if def != nil {
			engine.ClearDefault(def)
		}

		for name, p := range r.pools {
			if err := p.Release(poolReleaseTimeout); err != nil {
				r.logger.Warn("msg", "Task processor release timed out",
					"component", "service",
					"task_processor", name,
					"error", err)
			}
		}

		r.cancel()
		r.logger.Info("msg", "Logger registry shutdown complete", "component", "service")
	})
}
