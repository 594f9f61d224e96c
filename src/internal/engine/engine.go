// FILE: tplog/src/internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tplog/src/internal/core"
	"tplog/src/internal/format"
	"tplog/src/internal/queue"
	"tplog/src/internal/sink"
	"tplog/src/internal/stats"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// ErrNotRunning is returned by Start on an engine that already left Created
var ErrNotRunning = errors.New("engine is not in created state")

const defaultBatchSize = 64

// Executor runs the long-lived consumer task
type Executor interface {
	Submit(task func()) error
	Name() string
}

// Options configures a new Engine
type Options struct {
	Name       string
	Sinks      []sink.Sink
	Formatter  format.Formatter
	Level      core.Level
	FlushLevel core.Level
	QueueSize  int
	Overflow   core.OverflowBehavior

	// Executor runs the consumer, nil starts a dedicated goroutine
	Executor  Executor
	BatchSize int
	Logger    *log.Logger
}

// Engine owns a bounded queue, an ordered sink set and the consumer draining one into the other
type Engine struct {
	name       string
	sinks      []sink.Sink
	formatter  format.Formatter
	flushLevel core.Level
	overflow   core.OverflowBehavior
	executor   Executor
	batchSize  int
	logger     *log.Logger

	level atomic.Int32
	state atomic.Int32
	queue *queue.Queue[core.Record]
	stats stats.LogStatistics

	// Flush requests bypass the queue so they never take a record slot
	flushMu      sync.Mutex
	flushWaiters []chan error
	flushWake    chan struct{}

	stopOnce     sync.Once
	consumerDone chan struct{}
	started      atomic.Bool

	errLimiter    *rate.Limiter
	suppressedErr atomic.Uint64
}

// New validates opts and returns an engine in the Created state
func New(opts Options) (*Engine, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("logger name is empty")
	}
	if opts.Formatter == nil {
		return nil, fmt.Errorf("logger '%s': formatter is required", opts.Name)
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger '%s': diagnostics logger is required", opts.Name)
	}

	q, err := queue.New[core.Record](opts.QueueSize)
	if err != nil {
		return nil, fmt.Errorf("logger '%s': %w", opts.Name, err)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	e := &Engine{
		name:         opts.Name,
		sinks:        opts.Sinks,
		formatter:    opts.Formatter,
		flushLevel:   opts.FlushLevel,
		overflow:     opts.Overflow,
		executor:     opts.Executor,
		batchSize:    batchSize,
		logger:       opts.Logger,
		queue:        q,
		consumerDone: make(chan struct{}),
		flushWake:    make(chan struct{}, 1),
		errLimiter:   rate.NewLimiter(rate.Every(time.Second), 5),
	}
	e.level.Store(int32(opts.Level))
	e.state.Store(int32(StateCreated))

	return e, nil
}

// Start spawns the consumer and begins accepting records
func (e *Engine) Start() error {
	if !e.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return fmt.Errorf("logger '%s': %w (state %s)", e.name, ErrNotRunning, e.State())
	}

	e.started.Store(true)
	if e.executor == nil {
		go e.consume()
	} else if err := e.executor.Submit(e.consume); err != nil {
		e.started.Store(false)
		e.state.Store(int32(StateCreated))
		return fmt.Errorf("logger '%s': failed to start consumer on '%s': %w", e.name, e.executor.Name(), err)
	}

	e.logger.Debug("msg", "Logger started",
		"component", "engine",
		"logger", e.name,
		"queue_size", e.queue.Cap(),
		"overflow", e.overflow.String(),
		"sinks", len(e.sinks))
	return nil
}

// Name returns the logger name
func (e *Engine) Name() string {
	return e.name
}

// State returns the lifecycle state
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Level returns the minimum accepted level
func (e *Engine) Level() core.Level {
	return core.Level(e.level.Load())
}

// SetLevel changes the minimum accepted level at runtime
func (e *Engine) SetLevel(level core.Level) {
	e.level.Store(int32(level))
}

// FlushLevel returns the level at and above which records are flushed immediately
func (e *Engine) FlushLevel() core.Level {
	return e.flushLevel
}

// Overflow returns the configured overflow behavior
func (e *Engine) Overflow() core.OverflowBehavior {
	return e.overflow
}

// ShouldLog reports whether a record at level would be accepted
func (e *Engine) ShouldLog(level core.Level) bool {
	return level < core.LevelNone && level >= e.Level()
}

// Sinks returns the sink set in registration order
func (e *Engine) Sinks() []sink.Sink {
	return e.sinks
}

// Stats returns a snapshot of the engine counters
func (e *Engine) Stats() stats.Snapshot {
	return e.stats.Snapshot()
}

// QueueLen returns the number of queued records
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// QueueCap returns the queue capacity
func (e *Engine) QueueCap() int {
	return e.queue.Cap()
}
