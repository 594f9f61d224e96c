// FILE: tplog/src/internal/core/level.go
package core

import (
	"fmt"
	"strings"
)

// Level orders records by severity, None suppresses everything
type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	LevelNone
)

// Number of levels that carry records
const LevelCount = int(LevelNone)

var levelNames = [...]string{
	LevelTrace:    "trace",
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarning:  "warning",
	LevelError:    "error",
	LevelCritical: "critical",
	LevelNone:     "none",
}

func (l Level) String() string {
	if l < LevelTrace || l > LevelNone {
		return fmt.Sprintf("level(%d)", int32(l))
	}
	return levelNames[l]
}

// Upper returns the name used by tskv and ltsv lines
func (l Level) Upper() string {
	return strings.ToUpper(l.String())
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("unknown log level: %s", s)
	}
}
