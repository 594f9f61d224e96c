// FILE: tplog/src/internal/service/logger.go
package service

import (
	"fmt"

	"tplog/src/internal/config"
	"tplog/src/internal/core"
	"tplog/src/internal/engine"
	"tplog/src/internal/format"
	"tplog/src/internal/sink"
)

// buildLogger creates, starts and registers the engine for one logger entry
func (r *Registry) buildLogger(cfg *config.Config, lc *config.LoggerConfig) error {
	r.logger.Debug("msg", "Creating logger",
		"component", "service",
		"logger", lc.Name,
		"file_path", lc.FilePath)

	level, err := core.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("logger '%s': %w", lc.Name, err)
	}
	flushLevel, err := core.ParseLevel(lc.FlushLevel)
	if err != nil {
		return fmt.Errorf("logger '%s': flush_level: %w", lc.Name, err)
	}
	overflow, err := core.ParseOverflowBehavior(lc.OverflowBehavior)
	if err != nil {
		return fmt.Errorf("logger '%s': %w", lc.Name, err)
	}

	formatter, err := format.NewFormatter(lc.Format, nil, r.logger)
	if err != nil {
		return fmt.Errorf("logger '%s': failed to create formatter: %w", lc.Name, err)
	}

	sinks, capture, err := r.buildSinks(lc)
	if err != nil {
		return err
	}

	pool, ok := r.pools[cfg.ConsumerProcessor(lc)]
	if !ok {
		closeSinks(sinks)
		return fmt.Errorf("logger '%s': task processor '%s' not found", lc.Name, cfg.ConsumerProcessor(lc))
	}

	if _, err := r.Register(lc.Name, engine.Options{
		Sinks:      sinks,
		Formatter:  formatter,
		Level:      level,
		FlushLevel: flushLevel,
		QueueSize:  int(lc.MessageQueueSize),
		Overflow:   overflow,
		Executor:   pool,
		Logger:     r.logger,
	}); err != nil {
		closeSinks(sinks)
		return err
	}

	if capture != nil {
		r.mu.Lock()
		r.capture = capture
		r.mu.Unlock()
	}
	return nil
}

// buildSinks returns the primary sink and, for the default logger, the silenced capture sink
func (r *Registry) buildSinks(lc *config.LoggerConfig) ([]sink.Sink, sink.Sink, error) {
	if sink.IsFilePath(lc.FilePath) {
		if err := sink.EnsureDir(lc.FilePath); err != nil {
			return nil, nil, fmt.Errorf("Failed to create directory for log file of logger '%s': %w", lc.Name, err)
		}
	}

	primary, err := sink.FromPath(lc.FilePath, int(lc.BufferSize), r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("logger '%s': %w", lc.Name, err)
	}
	sinks := []sink.Sink{primary}

	if lc.TestsuiteCapture == nil {
		return sinks, nil, nil
	}

	capture, err := sink.NewTCPSocketSink(lc.TestsuiteCapture.Host, int(lc.TestsuiteCapture.Port),
		sink.DefaultSocketConfig(), r.logger)
	if err != nil {
		closeSinks(sinks)
		return nil, nil, fmt.Errorf("logger '%s': testsuite capture: %w", lc.Name, err)
	}
	capture.SetLevel(core.LevelNone)

	return append(sinks, capture), capture, nil
}

func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		_ = s.Close()
	}
}
