// FILE: tplog/src/internal/format/ltsv.go
package format

import (
	"bytes"
	"fmt"
	"strings"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

var (
	ltsvValueEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")
	ltsvLabelEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r", ":", "\\:")
)

// Produces labeled tab separated values (label:value)
type LTSVFormatter struct {
	timestampFormat string
	logger          *log.Logger
}

func NewLTSVFormatter(options map[string]any, logger *log.Logger) (*LTSVFormatter, error) {
	return &LTSVFormatter{
		timestampFormat: timestampFormat(options),
		logger:          logger,
	}, nil
}

func (f *LTSVFormatter) Format(entry core.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writeLTSV(&buf, "timestamp", entry.Time.Format(f.timestampFormat), true)
	writeLTSV(&buf, "level", entry.Level.Upper(), false)
	writeLTSV(&buf, "logger", entry.Logger, false)
	writeLTSV(&buf, "text", entry.Message, false)
	fieldPairs(entry.Fields, func(key string, value any) {
		writeLTSV(&buf, key, fmt.Sprint(value), false)
	})
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (f *LTSVFormatter) Name() string {
	return "ltsv"
}

func writeLTSV(buf *bytes.Buffer, label, value string, first bool) {
	if !first {
		buf.WriteByte('\t')
	}
	buf.WriteString(ltsvLabelEscaper.Replace(label))
	buf.WriteByte(':')
	buf.WriteString(ltsvValueEscaper.Replace(value))
}
