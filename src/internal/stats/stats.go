// FILE: tplog/src/internal/stats/stats.go
package stats

import (
	"sync/atomic"

	"tplog/src/internal/core"
)

// LogStatistics holds the monotonic counters of one engine
type LogStatistics struct {
	dropped     atomic.Uint64
	writeErrors atomic.Uint64
	flushErrors atomic.Uint64
	byLevel     [core.LevelCount]atomic.Uint64
}

// Snapshot is a point-in-time copy of LogStatistics
type Snapshot struct {
	Dropped     uint64            `json:"dropped"`
	WriteErrors uint64            `json:"write_errors"`
	FlushErrors uint64            `json:"flush_errors"`
	ByLevel     map[string]uint64 `json:"by_level"`
	Total       uint64            `json:"total"`
}

func (s *LogStatistics) AddDropped() {
	s.dropped.Add(1)
}

func (s *LogStatistics) AddWriteError() {
	s.writeErrors.Add(1)
}

func (s *LogStatistics) AddFlushError() {
	s.flushErrors.Add(1)
}

// AddAccepted counts one record accepted into the queue at level
func (s *LogStatistics) AddAccepted(level core.Level) {
	if level < core.LevelTrace || int(level) >= core.LevelCount {
		return
	}
	s.byLevel[level].Add(1)
}

func (s *LogStatistics) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *LogStatistics) Accepted(level core.Level) uint64 {
	if level < core.LevelTrace || int(level) >= core.LevelCount {
		return 0
	}
	return s.byLevel[level].Load()
}

// Snapshot reads every counter; each value is individually consistent
func (s *LogStatistics) Snapshot() Snapshot {
	snap := Snapshot{
		Dropped:     s.dropped.Load(),
		WriteErrors: s.writeErrors.Load(),
		FlushErrors: s.flushErrors.Load(),
		ByLevel:     make(map[string]uint64, core.LevelCount),
	}
	for i := 0; i < core.LevelCount; i++ {
		n := s.byLevel[i].Load()
		snap.ByLevel[core.Level(i).String()] = n
		snap.Total += n
	}
	return snap
}
