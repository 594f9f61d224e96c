// FILE: tplog/src/internal/capture/capture_test.go
package capture

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"tplog/src/internal/core"
	"tplog/src/internal/sink"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func startServer(t *testing.T, onLine func(string)) (*Server, int) {
	t.Helper()
	port := freePort(t)
	srv := NewServer(fmt.Sprintf("127.0.0.1:%d", port), newTestLogger())
	if onLine != nil {
		srv.OnLine(onLine)
	}
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return srv, port
}

func TestServer_ReceivesFromSocketSink(t *testing.T) {
	srv, port := startServer(t, nil)

	s, err := sink.NewTCPSocketSink("127.0.0.1", port, sink.DefaultSocketConfig(), newTestLogger())
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Write(core.Record{
			Level:   core.LevelInfo,
			Payload: []byte(fmt.Sprintf("record %d\n", i)),
		}))
	}
	require.NoError(t, s.Flush())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	line, err := srv.WaitFor(ctx, "record 2")
	require.NoError(t, err)
	assert.Equal(t, "record 2", line)
	assert.Equal(t, []string{"record 0", "record 1", "record 2"}, srv.Lines())
}

func TestServer_SplitsPartialWrites(t *testing.T) {
	lines := make(chan string, 4)
	_, port := startServer(t, func(line string) { lines <- line })

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err)

	_, err = conn.Write([]byte("first half "))
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = conn.Write([]byte("second half\ntrailing"))
	require.NoError(t, err)

	select {
	case line := <-lines:
		assert.Equal(t, "first half second half", line)
	case <-time.After(2 * time.Second):
		t.Fatal("no line received")
	}

	// The unterminated tail is kept when the peer disconnects
	require.NoError(t, conn.Close())
	select {
	case line := <-lines:
		assert.Equal(t, "trailing", line)
	case <-time.After(2 * time.Second):
		t.Fatal("tail not received on close")
	}
}

func TestServer_WaitForTimeout(t *testing.T) {
	srv, _ := startServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := srv.WaitFor(ctx, "never")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServer_Reset(t *testing.T) {
	srv, port := startServer(t, nil)

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("one\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = srv.WaitFor(ctx, "one")
	require.NoError(t, err)

	srv.Reset()
	assert.Empty(t, srv.Lines())
	assert.Equal(t, uint64(1), srv.GetStats()["total_lines"])
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv := NewServer("127.0.0.1:0", newTestLogger())
	assert.ErrorIs(t, srv.Stop(context.Background()), ErrNotStarted)
}
