// FILE: tplog/src/internal/format/raw.go
package format

import (
	"bytes"
	"fmt"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

// Outputs the message as-is followed by any fields, no metadata
type RawFormatter struct {
	logger *log.Logger
}

// Creates a new raw formatter
func NewRawFormatter(options map[string]any, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{
		logger: logger,
	}, nil
}

// Returns the message with fields and a newline appended
func (f *RawFormatter) Format(entry core.Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(entry.Message)
	fieldPairs(entry.Fields, func(key string, value any) {
		fmt.Fprintf(&buf, "\t%s=%v", key, value)
	})
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
