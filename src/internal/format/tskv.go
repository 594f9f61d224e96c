// FILE: tplog/src/internal/format/tskv.go
package format

import (
	"bytes"
	"fmt"
	"strings"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

var (
	tskvValueEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")
	tskvKeyEscaper   = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r", "=", "\\=")
)

// Produces tab separated key=value lines prefixed with "tskv"
type TSKVFormatter struct {
	timestampFormat string
	logger          *log.Logger
}

func NewTSKVFormatter(options map[string]any, logger *log.Logger) (*TSKVFormatter, error) {
	return &TSKVFormatter{
		timestampFormat: timestampFormat(options),
		logger:          logger,
	}, nil
}

func (f *TSKVFormatter) Format(entry core.Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("tskv")
	writeTSKV(&buf, "timestamp", entry.Time.Format(f.timestampFormat))
	writeTSKV(&buf, "level", entry.Level.Upper())
	writeTSKV(&buf, "logger", entry.Logger)
	writeTSKV(&buf, "text", entry.Message)
	fieldPairs(entry.Fields, func(key string, value any) {
		writeTSKV(&buf, key, fmt.Sprint(value))
	})
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (f *TSKVFormatter) Name() string {
	return "tskv"
}

func writeTSKV(buf *bytes.Buffer, key, value string) {
	buf.WriteByte('\t')
	buf.WriteString(tskvKeyEscaper.Replace(key))
	buf.WriteByte('=')
	buf.WriteString(tskvValueEscaper.Replace(value))
}
