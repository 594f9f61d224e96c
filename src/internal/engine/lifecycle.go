// FILE: tplog/src/internal/engine/lifecycle.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"tplog/src/internal/core"
	"tplog/src/internal/sink"
)

// Flush returns once every record enqueued before the call has been written and all sinks flushed.
// A created engine flushes its sinks directly, a stopped one has nothing left to flush.
func (e *Engine) Flush(ctx context.Context) error {
	switch e.State() {
	case StateCreated:
		return e.flushSinks()
	case StateRunning:
	default:
		return nil
	}

	done := make(chan error, 1)
	e.flushMu.Lock()
	e.flushWaiters = append(e.flushWaiters, done)
	e.flushMu.Unlock()

	select {
	case e.flushWake <- struct{}{}:
	default:
		// A wake is already pending and will collect this request
	}

	select {
	case err := <-done:
		return err
	case <-e.consumerDone:
		// Stop drains and flushes on its own
		select {
		case err := <-done:
			return err
		default:
			return nil
		}
	case <-ctx.Done():
		return fmt.Errorf("logger '%s': flush: %w", e.name, ctx.Err())
	}
}

// Reopen reopens every sink in place. Writes to a sink are held off while it reopens.
func (e *Engine) Reopen(mode core.ReopenMode) error {
	var errs []error
	for _, s := range e.sinks {
		if err := s.Reopen(mode); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sinkTarget(s), err))
		}
	}
	return errors.Join(errs...)
}

// Stop closes the queue, waits for the consumer to drain it and closes every sink once.
// Later calls are no-ops.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.state.Store(int32(StateStopping))
		e.queue.Close()

		if e.started.Load() {
			<-e.consumerDone
		}

		for _, s := range e.sinks {
			if err := s.Close(); err != nil && !errors.Is(err, sink.ErrClosed) {
				e.logger.Warn("msg", "Failed to close sink",
					"component", "engine",
					"logger", e.name,
					"sink", sinkTarget(s),
					"error", err)
			}
		}

		e.state.Store(int32(StateStopped))
		e.logger.Debug("msg", "Logger stopped",
			"component", "engine",
			"logger", e.name,
			"dropped", e.stats.Dropped())
	})
}
