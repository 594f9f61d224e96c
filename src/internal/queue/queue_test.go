// FILE: tplog/src/internal/queue/queue_test.go
package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New[int](0)
	assert.Error(t, err)

	q, err := New[int](8)
	require.NoError(t, err)
	assert.Equal(t, 8, q.Cap())
	assert.Equal(t, 0, q.Len())
}

func TestTryPush(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	assert.Equal(t, Accepted, q.TryPush(1))
	assert.Equal(t, Accepted, q.TryPush(2))
	assert.Equal(t, Full, q.TryPush(3))
	assert.LessOrEqual(t, q.Len(), q.Cap())

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Equal(t, Accepted, q.TryPush(4))

	q.Close()
	assert.Equal(t, Closed, q.TryPush(5))
	assert.True(t, q.IsClosed())
}

func TestCloseDrains(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.Equal(t, Accepted, q.TryPush(i))
	}
	q.Close()
	q.Close() // idempotent

	for i := 0; i < 3; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestPushBlocksUntilSpace(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)
	require.Equal(t, Accepted, q.TryPush(1))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(context.Background(), 2)
	}()

	select {
	case <-pushed:
		t.Fatal("push returned while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	select {
	case err := <-pushed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked push did not resume")
	}

	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPushUnblockedByClose(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)
	require.Equal(t, Accepted, q.TryPush(1))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(context.Background(), 2)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-pushed:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("close did not release blocked push")
	}
}

func TestPushContextCancel(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)
	require.Equal(t, Accepted, q.TryPush(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = q.Push(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPopBatch(t *testing.T) {
	q, err := New[int](8)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.Equal(t, Accepted, q.TryPush(i))
	}

	buf := make([]int, 0, 3)
	batch, ok := q.PopBatch(buf)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, batch)

	batch, ok = q.PopBatch(batch)
	require.True(t, ok)
	assert.Equal(t, []int{3, 4}, batch)

	q.Close()
	batch, ok = q.PopBatch(batch)
	assert.False(t, ok)
	assert.Empty(t, batch)
}

func TestPopBatchOr(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)

	wake := make(chan struct{}, 1)
	wake <- struct{}{}
	batch, ok := q.PopBatchOr(make([]int, 0, 4), wake)
	require.True(t, ok)
	assert.Empty(t, batch, "woken with nothing queued")

	require.Equal(t, Accepted, q.TryPush(7))
	batch, ok = q.PopBatchOr(batch, wake)
	require.True(t, ok)
	assert.Equal(t, []int{7}, batch)

	q.Close()
	_, ok = q.PopBatchOr(batch, wake)
	assert.False(t, ok)
}

func TestTryPopN(t *testing.T) {
	q, err := New[int](8)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.Equal(t, Accepted, q.TryPush(i))
	}

	got := q.TryPopN([]int{-1}, 3)
	assert.Equal(t, []int{-1, 0, 1, 2}, got)
	assert.Equal(t, 2, q.Len())

	got = q.TryPopN(nil, 10)
	assert.Equal(t, []int{3, 4}, got)
	assert.Empty(t, q.TryPopN(nil, 1))
}

func TestConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	const producers = 8
	const perProducer = 500

	q, err := New[[2]int](64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, q.Push(context.Background(), [2]int{id, i}))
			}
		}(p)
	}

	go func() {
		wg.Wait()
		q.Close()
	}()

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	total := 0
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		assert.Equal(t, last[v[0]]+1, v[1], "producer %d out of order", v[0])
		last[v[0]] = v[1]
		total++
	}
	assert.Equal(t, producers*perProducer, total)
}

func TestIsPowerOfTwo(t *testing.T) {
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(65536))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(3))
	assert.False(t, IsPowerOfTwo(-4))
}
