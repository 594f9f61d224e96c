// FILE: tplog/src/internal/format/format.go
package format

import (
	"fmt"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

// Timestamp layout shared by all line formats
const DefaultTimestampFormat = "2006-01-02T15:04:05.000000"

// Formatter turns an Entry into one newline-terminated line
type Formatter interface {
	// Format renders the entry into the sink wire format
	Format(entry core.Entry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// NewFormatter creates a Formatter by its configured name
func NewFormatter(name string, options map[string]any, logger *log.Logger) (Formatter, error) {
	// Default matches the logger config default
	if name == "" {
		name = "tskv"
	}

	switch name {
	case "tskv":
		return NewTSKVFormatter(options, logger)
	case "ltsv":
		return NewLTSVFormatter(options, logger)
	case "raw":
		return NewRawFormatter(options, logger)
	case "txt":
		return NewTxtFormatter(options, logger)
	case "json":
		return NewJSONFormatter(options, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}

// Names lists the accepted formatter names
func Names() []string {
	return []string{"tskv", "ltsv", "raw", "txt", "json"}
}

func timestampFormat(options map[string]any) string {
	if tf, ok := options["timestamp_format"].(string); ok && tf != "" {
		return tf
	}
	return DefaultTimestampFormat
}

// fieldPairs walks alternating key/value fields, an unpaired key gets an empty value
func fieldPairs(fields []any, fn func(key string, value any)) {
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		var value any = ""
		if i+1 < len(fields) {
			value = fields[i+1]
		}
		fn(key, value)
	}
}
