// FILE: tplog/src/internal/format/txt.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
)

const DefaultTxtTemplate = "[{{FmtTime .Timestamp}}] [{{.Logger}}] [{{.Level}}] {{.Message}}{{.Fields}}"

// One record is one line
var txtEscaper = strings.NewReplacer("\n", "\\n", "\r", "\\r")

// Produces human-readable text logs using templates
type TxtFormatter struct {
	timestampFormat string
	template        *template.Template
	logger          *log.Logger
}

// Creates a new text formatter, options "template" and "timestamp_format" override defaults
func NewTxtFormatter(options map[string]any, logger *log.Logger) (*TxtFormatter, error) {
	f := &TxtFormatter{
		timestampFormat: timestampFormat(options),
		logger:          logger,
	}

	tmplText := DefaultTxtTemplate
	if t, ok := options["template"].(string); ok && t != "" {
		tmplText = t
	}

	// Create template with helper functions
	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.timestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("log").Funcs(funcMap).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

// Formats the entry using the template
func (f *TxtFormatter) Format(entry core.Entry) ([]byte, error) {
	var fields strings.Builder
	fieldPairs(entry.Fields, func(key string, value any) {
		fmt.Fprintf(&fields, " %s=%s", txtEscaper.Replace(key), txtEscaper.Replace(fmt.Sprint(value)))
	})
	message := txtEscaper.Replace(entry.Message)

	data := map[string]any{
		"Timestamp": entry.Time,
		"Level":     entry.Level.String(),
		"Logger":    entry.Logger,
		"Message":   message,
		"Fields":    fields.String(),
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		// Fallback: return a basic formatted message
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "txt_formatter",
			"error", err)

		fallback := fmt.Sprintf("[%s] [%s] [%s] %s%s\n",
			entry.Time.Format(f.timestampFormat),
			entry.Logger,
			entry.Level.String(),
			message,
			fields.String())
		return []byte(fallback), nil
	}

	// Ensure newline at end
	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

// Returns the formatter name
func (f *TxtFormatter) Name() string {
	return "txt"
}
