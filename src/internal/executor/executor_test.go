// FILE: tplog/src/internal/executor/executor_test.go
package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestNew(t *testing.T) {
	_, err := New("bad", 0, newTestLogger())
	assert.Error(t, err)

	p, err := New("fs-task-processor", 2, newTestLogger())
	require.NoError(t, err)
	defer p.Release(time.Second)

	assert.Equal(t, "fs-task-processor", p.Name())
	assert.Equal(t, 2, p.Cap())
}

func TestSubmit(t *testing.T) {
	p, err := New("workers", 4, newTestLogger())
	require.NoError(t, err)
	defer p.Release(time.Second)

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(20), count.Load())
	assert.Equal(t, uint64(20), p.Stats()["submitted"])
}

func TestGo(t *testing.T) {
	p, err := New("workers", 1, newTestLogger())
	require.NoError(t, err)
	defer p.Release(time.Second)

	ctx := context.Background()
	assert.NoError(t, <-p.Go(ctx, func() error { return nil }))

	want := errors.New("boom")
	assert.ErrorIs(t, <-p.Go(ctx, func() error { return want }), want)

	err = <-p.Go(ctx, func() error { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestGo_SaturatedPool(t *testing.T) {
	p, err := New("fs-task-processor", 1, newTestLogger())
	require.NoError(t, err)

	release := make(chan struct{})
	defer func() {
		close(release)
		p.Release(time.Second)
	}()

	stuck := p.Go(context.Background(), func() error {
		<-release
		return nil
	})
	require.Eventually(t, func() bool { return p.Running() == 1 }, time.Second, 5*time.Millisecond)

	select {
	case err := <-p.Go(context.Background(), func() error { return nil }):
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("task waited behind a stuck worker")
	}
	assert.Equal(t, uint64(1), p.Stats()["overflowed"])

	select {
	case <-stuck:
		t.Fatal("stuck task finished early")
	default:
	}
}

func TestGo_SkipsCancelledTask(t *testing.T) {
	p, err := New("workers", 1, newTestLogger())
	require.NoError(t, err)
	defer p.Release(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err = <-p.Go(ctx, func() error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestSubmit_WaitsForWorker(t *testing.T) {
	p, err := New("workers", 1, newTestLogger())
	require.NoError(t, err)
	defer p.Release(time.Second)

	release := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-release }))

	submitted := make(chan error, 1)
	go func() { submitted <- p.Submit(func() {}) }()

	select {
	case <-submitted:
		t.Fatal("Submit returned while the only worker was busy")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-submitted:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit never found the freed worker")
	}
}

func TestSubmitAfterRelease(t *testing.T) {
	p, err := New("workers", 1, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Release(time.Second))
	assert.True(t, p.IsClosed())

	err = p.Submit(func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}
