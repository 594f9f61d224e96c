// FILE: tplog/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter produces one JSON object per line.
type JSONFormatter struct {
	timestampFormat string
	logger          *log.Logger
}

// NewJSONFormatter creates a new JSON formatter from configuration options.
func NewJSONFormatter(options map[string]any, logger *log.Logger) (*JSONFormatter, error) {
	return &JSONFormatter{
		timestampFormat: timestampFormat(options),
		logger:          logger,
	}, nil
}

// Format transforms a single Entry into a JSON object followed by a newline.
func (f *JSONFormatter) Format(entry core.Entry) ([]byte, error) {
	output := make(map[string]any, 4+len(entry.Fields)/2)

	// Fields first so metadata takes precedence
	fieldPairs(entry.Fields, func(key string, value any) {
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		output[key] = value
	})

	output["timestamp"] = entry.Time.Format(f.timestampFormat)
	output["level"] = entry.Level.String()
	output["logger"] = entry.Logger
	output["text"] = entry.Message

	result, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
