// FILE: tplog/src/internal/core/types.go
package core

import (
	"fmt"
	"strings"
	"time"
)

// Record is a single formatted log entry queued as one unit
type Record struct {
	LoggerName string
	Level      Level
	Time       time.Time
	Payload    []byte
}

// OverflowBehavior selects what a full queue does to a producer
type OverflowBehavior int

const (
	OverflowDiscard OverflowBehavior = iota
	OverflowBlock
)

func (o OverflowBehavior) String() string {
	switch o {
	case OverflowDiscard:
		return "discard"
	case OverflowBlock:
		return "block"
	default:
		return fmt.Sprintf("overflow(%d)", int(o))
	}
}

// Parses "discard" or "block"
func ParseOverflowBehavior(s string) (OverflowBehavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return OverflowDiscard, nil
	case "block":
		return OverflowBlock, nil
	default:
		return OverflowDiscard, fmt.Errorf("invalid overflow_behavior '%s' (valid: discard, block)", s)
	}
}

// ReopenMode controls whether a reopened file keeps its content
type ReopenMode int

const (
	ReopenAppend ReopenMode = iota
	ReopenTruncate
)

func (m ReopenMode) String() string {
	if m == ReopenTruncate {
		return "truncate"
	}
	return "append"
}

// Parses "append" or "truncate", empty means append
func ParseReopenMode(s string) (ReopenMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return ReopenAppend, nil
	case "truncate":
		return ReopenTruncate, nil
	default:
		return ReopenAppend, fmt.Errorf("invalid reopen mode '%s' (valid: append, truncate)", s)
	}
}

// Entry is the unformatted view of a log call handed to a formatter
type Entry struct {
	Time    time.Time
	Logger  string
	Level   Level
	Message string
	Fields  []any // alternating key, value
}
