// FILE: tplog/src/internal/engine/consumer.go
package engine

import (
	"errors"
	"fmt"

	"tplog/src/internal/core"
	"tplog/src/internal/sink"
)

// consume drains the queue until it is closed and empty, answering flush requests in between
func (e *Engine) consume() {
	defer close(e.consumerDone)

	batch := make([]core.Record, 0, e.batchSize)
	for {
		var ok bool
		batch, ok = e.queue.PopBatchOr(batch, e.flushWake)
		for i := range batch {
			e.process(batch[i])
		}
		woken := ok && len(batch) == 0
		clear(batch)

		if !ok {
			e.answerFlushes(batch)
			return
		}
		if woken {
			e.answerFlushes(batch)
		}
	}
}

// answerFlushes writes out every record queued before the pending requests, then flushes sinks
func (e *Engine) answerFlushes(batch []core.Record) {
	e.flushMu.Lock()
	waiters := e.flushWaiters
	e.flushWaiters = nil
	e.flushMu.Unlock()

	if len(waiters) == 0 {
		return
	}

	// Records pushed before a request are already queued, so the current length bounds them
	for n := e.queue.Len(); n > 0; {
		batch = e.queue.TryPopN(batch[:0], min(n, cap(batch)))
		if len(batch) == 0 {
			break
		}
		n -= len(batch)
		for i := range batch {
			e.process(batch[i])
		}
		clear(batch)
	}

	err := e.flushSinks()
	for _, w := range waiters {
		w <- err
	}
}

func (e *Engine) process(rec core.Record) {
	flushNow := rec.Level >= e.flushLevel

	for _, s := range e.sinks {
		// Per-sink level lets a capture sink stay silent until enabled
		if rec.Level < s.Level() {
			continue
		}

		if err := s.Write(rec); err != nil {
			e.stats.AddWriteError()
			e.reportError("Sink write failed", sinkTarget(s), err)
			continue
		}

		if flushNow {
			if err := s.Flush(); err != nil {
				e.stats.AddFlushError()
				e.reportError("Sink flush failed", sinkTarget(s), err)
			}
		}
	}
}

// flushSinks flushes every sink, collecting failures
func (e *Engine) flushSinks() error {
	var errs []error
	for _, s := range e.sinks {
		if err := s.Flush(); err != nil && !errors.Is(err, sink.ErrClosed) {
			e.stats.AddFlushError()
			errs = append(errs, fmt.Errorf("%s: %w", sinkTarget(s), err))
		}
	}
	return errors.Join(errs...)
}

// reportError sends a delivery failure to the diagnostics logger, rate limited per engine
func (e *Engine) reportError(msg, target string, err error) {
	if !e.errLimiter.Allow() {
		e.suppressedErr.Add(1)
		return
	}
	e.logger.Warn("msg", msg,
		"component", "engine",
		"logger", e.name,
		"sink", target,
		"error", err,
		"suppressed", e.suppressedErr.Swap(0))
}

func sinkTarget(s sink.Sink) string {
	st := s.GetStats()
	return st.Type + ":" + st.Target
}
