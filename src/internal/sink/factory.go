// FILE: tplog/src/internal/sink/factory.go
package sink

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/log"
)

// Sentinel file_path values
const (
	NullPath       = "@null"
	StderrPath     = "@stderr"
	StdoutPath     = "@stdout"
	UnixPathPrefix = "unix:"
)

// FromPath builds the sink a configured file_path names
func FromPath(path string, bufferSize int, logger *log.Logger) (Sink, error) {
	switch {
	case path == NullPath:
		return NewNullSink(), nil
	case path == StderrPath:
		return NewStreamSink("stderr", logger)
	case path == StdoutPath:
		return NewStreamSink("stdout", logger)
	case strings.HasPrefix(path, UnixPathPrefix):
		return NewUnixSocketSink(strings.TrimPrefix(path, UnixPathPrefix), DefaultSocketConfig(), logger)
	case path == "":
		return nil, fmt.Errorf("empty file_path")
	default:
		return NewFileSink(path, bufferSize, logger)
	}
}

// IsFilePath reports whether path names a regular file rather than a sentinel or socket
func IsFilePath(path string) bool {
	switch {
	case path == "", path == NullPath, path == StderrPath, path == StdoutPath:
		return false
	case strings.HasPrefix(path, UnixPathPrefix):
		return false
	default:
		return true
	}
}
