// FILE: tplog/src/internal/sink/sink.go
package sink

import (
	"errors"
	"sync/atomic"
	"time"

	"tplog/src/internal/core"
)

// ErrClosed is returned by operations on a sink after Close
var ErrClosed = errors.New("sink closed")

// Sink is one delivery target owned by a single engine.
// Write, Flush, Reopen and Close are mutually exclusive per sink.
type Sink interface {
	// Write delivers one formatted record
	Write(rec core.Record) error

	// Flush pushes buffered bytes to the OS
	Flush() error

	// Reopen reacquires the underlying resource in place
	Reopen(mode core.ReopenMode) error

	// Close releases the resource, later calls return ErrClosed
	Close() error

	// Level returns the minimum level this sink accepts
	Level() core.Level

	// SetLevel changes the minimum level at runtime
	SetLevel(level core.Level)

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type           string
	Target         string
	Level          string
	TotalProcessed uint64
	TotalFailed    uint64
	BytesWritten   uint64
	TotalReopens   uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// base carries the level and counters every sink shares
type base struct {
	level     atomic.Int32
	startTime time.Time

	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	bytesWritten   atomic.Uint64
	totalReopens   atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// initBase sets the defaults in place, base holds atomics and must not be copied
func (b *base) initBase() {
	b.startTime = time.Now()
	b.level.Store(int32(core.LevelTrace))
	b.lastProcessed.Store(time.Time{})
}

func (b *base) Level() core.Level {
	return core.Level(b.level.Load())
}

func (b *base) SetLevel(level core.Level) {
	b.level.Store(int32(level))
}

func (b *base) recordWrite(n int, err error) {
	b.lastProcessed.Store(time.Now())
	if err != nil {
		b.totalFailed.Add(1)
		return
	}
	b.totalProcessed.Add(1)
	b.bytesWritten.Add(uint64(n))
}

func (b *base) stats(typ, target string, details map[string]any) SinkStats {
	lastProc, _ := b.lastProcessed.Load().(time.Time)
	if details == nil {
		details = map[string]any{}
	}
	return SinkStats{
		Type:           typ,
		Target:         target,
		Level:          b.Level().String(),
		TotalProcessed: b.totalProcessed.Load(),
		TotalFailed:    b.totalFailed.Load(),
		BytesWritten:   b.bytesWritten.Load(),
		TotalReopens:   b.totalReopens.Load(),
		StartTime:      b.startTime,
		LastProcessed:  lastProc,
		Details:        details,
	}
}
