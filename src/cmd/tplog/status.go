// FILE: tplog/src/cmd/tplog/status.go
package main

import (
	"context"
	"time"

	"tplog/src/internal/service"
	"tplog/src/internal/stats"
)

// statusReporter periodically logs per-logger statistics at debug level
func statusReporter(ctx context.Context, registry *service.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("msg", "Panic in status reporter",
							"component", "status_reporter",
							"panic", r)
					}
				}()

				snapshots := registry.GetStatistics()
				if len(snapshots) == 0 {
					logger.Warn("msg", "No loggers in status report",
						"component", "status_reporter")
					return
				}

				logger.Debug("msg", "Status report",
					"component", "status_reporter",
					"loggers", len(snapshots),
					"time", time.Now().Format("15:04:05"))

				for name, snap := range snapshots {
					logLoggerStatus(name, snap)
				}
			}()
		}
	}
}

func logLoggerStatus(name string, snap stats.Snapshot) {
	fields := []any{
		"msg", "Logger status",
		"component", "status_reporter",
		"logger", name,
		"records", snap.Total,
		"dropped", snap.Dropped,
	}
	if snap.WriteErrors > 0 {
		fields = append(fields, "write_errors", snap.WriteErrors)
	}
	if snap.FlushErrors > 0 {
		fields = append(fields, "flush_errors", snap.FlushErrors)
	}
	logger.Debug(fields...)
}
