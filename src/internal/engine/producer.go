// FILE: tplog/src/internal/engine/producer.go
package engine

import (
	"context"
	"errors"
	"time"

	"tplog/src/internal/core"
	"tplog/src/internal/queue"
)

// Log formats and enqueues one record. It never reports I/O errors.
// Under Block overflow it may suspend until the consumer frees space or the engine stops.
func (e *Engine) Log(level core.Level, msg string, fields ...any) {
	e.LogContext(context.Background(), level, msg, fields...)
}

// LogContext is Log with a context bounding the Block overflow wait
func (e *Engine) LogContext(ctx context.Context, level core.Level, msg string, fields ...any) {
	// Suppressed levels cost no formatting or allocation
	if !e.ShouldLog(level) {
		return
	}
	if e.State() != StateRunning {
		return
	}

	entry := core.Entry{
		Time:    time.Now(),
		Logger:  e.name,
		Level:   level,
		Message: msg,
		Fields:  fields,
	}
	payload, err := e.formatter.Format(entry)
	if err != nil {
		e.reportError("Failed to format record", "", err)
		return
	}

	e.push(ctx, core.Record{
		LoggerName: e.name,
		Level:      level,
		Time:       entry.Time,
		Payload:    payload,
	})
}

// LogRecord enqueues an already formatted record
func (e *Engine) LogRecord(ctx context.Context, rec core.Record) {
	if !e.ShouldLog(rec.Level) || e.State() != StateRunning {
		return
	}
	if rec.LoggerName == "" {
		rec.LoggerName = e.name
	}
	e.push(ctx, rec)
}

func (e *Engine) push(ctx context.Context, rec core.Record) {
	if e.overflow == core.OverflowBlock {
		if err := e.queue.Push(ctx, rec); err == nil {
			e.stats.AddAccepted(rec.Level)
		} else if !errors.Is(err, queue.ErrClosed) {
			// Context ended while waiting for space
			e.stats.AddDropped()
		}
		return
	}

	switch e.queue.TryPush(rec) {
	case queue.Accepted:
		e.stats.AddAccepted(rec.Level)
	case queue.Full:
		e.stats.AddDropped()
	case queue.Closed:
		// Stopped concurrently, silently ignored
	}
}

func (e *Engine) Trace(msg string, fields ...any) {
	e.Log(core.LevelTrace, msg, fields...)
}

func (e *Engine) Debug(msg string, fields ...any) {
	e.Log(core.LevelDebug, msg, fields...)
}

func (e *Engine) Info(msg string, fields ...any) {
	e.Log(core.LevelInfo, msg, fields...)
}

func (e *Engine) Warning(msg string, fields ...any) {
	e.Log(core.LevelWarning, msg, fields...)
}

func (e *Engine) Error(msg string, fields ...any) {
	e.Log(core.LevelError, msg, fields...)
}

func (e *Engine) Critical(msg string, fields ...any) {
	e.Log(core.LevelCritical, msg, fields...)
}
