// FILE: tplog/src/internal/executor/executor.go
package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/ants/v2"
)

const (
	minSubmitBackoff = time.Millisecond
	maxSubmitBackoff = 50 * time.Millisecond
)

// Pool is a named task processor backed by an ants goroutine pool.
// Submit suspends while every worker is busy, Go never does.
type Pool struct {
	name   string
	pool   *ants.Pool
	logger *log.Logger

	submitted  atomic.Uint64
	panics     atomic.Uint64
	overflowed atomic.Uint64
}

// New creates a pool with workers goroutines
func New(name string, workers int, logger *log.Logger) (*Pool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("task processor '%s': worker_threads must be positive, got %d", name, workers)
	}

	p := &Pool{
		name:   name,
		logger: logger,
	}

	pool, err := ants.NewPool(workers,
		ants.WithPanicHandler(p.handlePanic),
		ants.WithLogger(compat.NewFastHTTPAdapter(logger)),
		ants.WithExpiryDuration(time.Minute),
		ants.WithNonblocking(true),
	)
	if err != nil {
		return nil, fmt.Errorf("task processor '%s': %w", name, err)
	}
	p.pool = pool

	return p, nil
}

func (p *Pool) handlePanic(r any) {
	p.panics.Add(1)
	p.logger.Error("msg", "Panic in task",
		"component", "executor",
		"task_processor", p.name,
		"panic", r,
		"stack", string(debug.Stack()))
}

// Submit posts task to the pool, waiting for a free worker
func (p *Pool) Submit(task func()) error {
	backoff := minSubmitBackoff
	for {
		err := p.pool.Submit(task)
		if err == nil {
			p.submitted.Add(1)
			return nil
		}
		if !errors.Is(err, ants.ErrPoolOverload) {
			return fmt.Errorf("task processor '%s': %w", p.name, err)
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, maxSubmitBackoff)
	}
}

// Go runs task and returns a channel receiving its error. It never waits for a worker:
// when every worker is busy the task runs on its own goroutine, so a stuck task cannot hold
// up the ones behind it. A task whose ctx ended before it started is skipped.
func (p *Pool) Go(ctx context.Context, task func() error) <-chan error {
	result := make(chan error, 1)
	run := func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
			result <- err
		}()
		if err = ctx.Err(); err != nil {
			return
		}
		err = task()
	}

	err := p.pool.Submit(run)
	switch {
	case err == nil:
		p.submitted.Add(1)
	case errors.Is(err, ants.ErrPoolOverload):
		p.overflowed.Add(1)
		p.logger.Debug("msg", "Task processor saturated, running task on a dedicated goroutine",
			"component", "executor",
			"task_processor", p.name,
			"workers", p.pool.Cap())
		go run()
	default:
		result <- fmt.Errorf("task processor '%s': %w", p.name, err)
	}
	return result
}

func (p *Pool) Name() string {
	return p.name
}

// Cap returns the number of workers
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Running returns the number of busy workers
func (p *Pool) Running() int {
	return p.pool.Running()
}

func (p *Pool) Stats() map[string]any {
	return map[string]any{
		"name":       p.name,
		"workers":    p.pool.Cap(),
		"running":    p.pool.Running(),
		"submitted":  p.submitted.Load(),
		"panics":     p.panics.Load(),
		"overflowed": p.overflowed.Load(),
	}
}

// Release waits up to timeout for running tasks, then frees the workers
func (p *Pool) Release(timeout time.Duration) error {
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("task processor '%s': %w", p.name, err)
	}
	return nil
}

// IsClosed reports whether Release has been called
func (p *Pool) IsClosed() bool {
	return p.pool.IsClosed()
}
