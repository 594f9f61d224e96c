// FILE: tplog/src/internal/service/scheduler.go
package service

import (
	"context"
	"time"
)

// StartFlushScheduler flushes every logger each interval until the registry shuts down.
// A second call replaces the running schedule.
func (r *Registry) StartFlushScheduler(interval time.Duration) {
	if interval <= 0 {
		r.logger.Warn("msg", "Flush scheduler not started, interval must be positive",
			"component", "service",
			"interval", interval)
		return
	}

	r.StopFlushScheduler()

	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	ctx, cancel := context.WithCancel(r.ctx)
	done := make(chan struct{})
	r.flushCancel = cancel
	r.flushDone = done

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				flushCtx, flushCancel := context.WithTimeout(ctx, interval)
				if err := r.FlushAll(flushCtx); err != nil {
					r.logger.Warn("msg", "Periodic flush failed",
						"component", "service",
						"error", err)
				}
				flushCancel()
			}
		}
	}()

	r.logger.Debug("msg", "Flush scheduler started",
		"component", "service",
		"interval", interval)
}

// StopFlushScheduler stops the periodic flush and waits for an in-flight one
func (r *Registry) StopFlushScheduler() {
	r.flushMu.Lock()
	cancel, done := r.flushCancel, r.flushDone
	r.flushCancel, r.flushDone = nil, nil
	r.flushMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
