// FILE: tplog/src/internal/service/rotation.go
package service

import (
	"context"
	"fmt"
	"strings"

	"tplog/src/internal/core"
	"tplog/src/internal/engine"

	"golang.org/x/sync/errgroup"
)

// ReopenAll reopens every logger's sinks concurrently on the fs task processor.
// All loggers are attempted; failures are reported together as "ReopenAll errors: <name>: <err>; ...".
func (r *Registry) ReopenAll(ctx context.Context, mode core.ReopenMode) error {
	engines := r.snapshot()
	failures := make([]string, len(engines))

	var g errgroup.Group
	for i, e := range engines {
		g.Go(func() error {
			if err := r.reopen(ctx, e, mode); err != nil {
				failures[i] = fmt.Sprintf("%s: %s", e.Name(), strings.ReplaceAll(err.Error(), "\n", "; "))
			}
			// Never fail the group so every logger gets its reopen
			return nil
		})
	}
	_ = g.Wait()

	var msgs []string
	for _, f := range failures {
		if f != "" {
			msgs = append(msgs, f)
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("ReopenAll errors: %s", strings.Join(msgs, "; "))
	}

	r.logger.Debug("msg", "All loggers reopened",
		"component", "service",
		"mode", mode.String(),
		"loggers", len(engines))
	return nil
}

func (r *Registry) reopen(ctx context.Context, e *engine.Engine, mode core.ReopenMode) error {
	if r.fsPool == nil {
		return e.Reopen(mode)
	}

	select {
	case err := <-r.fsPool.Go(ctx, func() error { return e.Reopen(mode) }):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunRotationListener reopens all loggers in append mode for every message on trigger.
// It blocks until ctx ends, the registry shuts down or trigger is closed.
func (r *Registry) RunRotationListener(ctx context.Context, trigger <-chan struct{}) {
	r.rotationMu.Lock()
	if r.rotationCancel != nil {
		r.rotationMu.Unlock()
		r.logger.Warn("msg", "Rotation listener already running", "component", "service")
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.rotationCancel = cancel
	r.rotationDone = done
	r.rotationMu.Unlock()

	defer close(done)
	defer cancel()

	r.logger.Debug("msg", "Rotation listener started", "component", "service")
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.ctx.Done():
			return
		case _, ok := <-trigger:
			if !ok {
				return
			}
			r.rotate(ctx)
		}
	}
}

func (r *Registry) rotate(ctx context.Context) {
	def := r.Default()

	if err := r.ReopenAll(ctx, core.ReopenAppend); err != nil {
		r.logger.Error("msg", "Log rotation failed",
			"component", "service",
			"error", err)
		if def != nil {
			def.Error("Log rotation failed", "error", err.Error())
		}
		return
	}

	r.logger.Info("msg", "Log rotated", "component", "service")
	if def != nil {
		def.Info("Log rotated")
	}
}

func (r *Registry) stopRotationListener() {
	r.rotationMu.Lock()
	cancel, done := r.rotationCancel, r.rotationDone
	r.rotationMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
