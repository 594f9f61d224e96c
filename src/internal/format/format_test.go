// FILE: tplog/src/internal/format/format_test.go
package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tplog/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func testEntry() core.Entry {
	return core.Entry{
		Time:    time.Date(2023, 10, 27, 10, 30, 0, 123456000, time.UTC),
		Logger:  "default",
		Level:   core.LevelWarning,
		Message: "message",
	}
}

func TestNewFormatter(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name        string
		formatName  string
		expected    string
		expectError bool
	}{
		{name: "TSKV", formatName: "tskv", expected: "tskv"},
		{name: "LTSV", formatName: "ltsv", expected: "ltsv"},
		{name: "Raw", formatName: "raw", expected: "raw"},
		{name: "Txt", formatName: "txt", expected: "txt"},
		{name: "JSON", formatName: "json", expected: "json"},
		{name: "DefaultToTSKV", formatName: "", expected: "tskv"},
		{name: "UnknownFormatter", formatName: "xml", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			formatter, err := NewFormatter(tc.formatName, nil, logger)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, formatter)
			} else {
				require.NoError(t, err)
				require.NotNil(t, formatter)
				assert.Equal(t, tc.expected, formatter.Name())
			}
		})
	}
}

func TestTSKVFormatter(t *testing.T) {
	f, err := NewTSKVFormatter(nil, newTestLogger())
	require.NoError(t, err)

	t.Run("Basic", func(t *testing.T) {
		out, err := f.Format(testEntry())
		require.NoError(t, err)
		assert.Equal(t,
			"tskv\ttimestamp=2023-10-27T10:30:00.123456\tlevel=WARNING\tlogger=default\ttext=message\n",
			string(out))
	})

	t.Run("EscapesAndFields", func(t *testing.T) {
		e := testEntry()
		e.Message = "line1\nline2\tend"
		e.Fields = []any{"k=x", 42, "dangling"}
		out, err := f.Format(e)
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "\ttext=line1\\nline2\\tend")
		assert.Contains(t, s, "\tk\\=x=42")
		assert.Contains(t, s, "\tdangling=\n")
		assert.Equal(t, 1, strings.Count(s, "\n"))
	})
}

func TestLTSVFormatter(t *testing.T) {
	f, err := NewLTSVFormatter(nil, newTestLogger())
	require.NoError(t, err)

	e := testEntry()
	e.Fields = []any{"user", "bob"}
	out, err := f.Format(e)
	require.NoError(t, err)
	assert.Equal(t,
		"timestamp:2023-10-27T10:30:00.123456\tlevel:WARNING\tlogger:default\ttext:message\tuser:bob\n",
		string(out))
}

func TestRawFormatter(t *testing.T) {
	f, err := NewRawFormatter(nil, newTestLogger())
	require.NoError(t, err)

	e := testEntry()
	out, err := f.Format(e)
	require.NoError(t, err)
	assert.Equal(t, "message\n", string(out))

	e.Fields = []any{"a", 1}
	out, err = f.Format(e)
	require.NoError(t, err)
	assert.Equal(t, "message\ta=1\n", string(out))
}

func TestTxtFormatter(t *testing.T) {
	logger := newTestLogger()

	t.Run("DefaultTemplate", func(t *testing.T) {
		f, err := NewTxtFormatter(nil, logger)
		require.NoError(t, err)

		out, err := f.Format(testEntry())
		require.NoError(t, err)
		assert.Equal(t, "[2023-10-27T10:30:00.123456] [default] [warning] message\n", string(out))
	})

	t.Run("CustomTemplate", func(t *testing.T) {
		f, err := NewTxtFormatter(map[string]any{"template": "{{.Level}}:{{.Logger}}:{{.Message}}"}, logger)
		require.NoError(t, err)

		out, err := f.Format(testEntry())
		require.NoError(t, err)
		assert.Equal(t, "warning:default:message\n", string(out))
	})

	t.Run("CustomTimestampFormat", func(t *testing.T) {
		f, err := NewTxtFormatter(map[string]any{"timestamp_format": "2006-01-02"}, logger)
		require.NoError(t, err)

		out, err := f.Format(testEntry())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), "[2023-10-27]"))
	})

	t.Run("MultilineMessage", func(t *testing.T) {
		f, err := NewTxtFormatter(map[string]any{"template": "{{.Message}}{{.Fields}}"}, logger)
		require.NoError(t, err)

		entry := testEntry()
		entry.Message = "first\nsecond\r\nthird"
		entry.Fields = []any{"trace", "at main\n\tat worker"}
		out, err := f.Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "first\\nsecond\\r\\nthird trace=at main\\n\tat worker\n", string(out))
		assert.Equal(t, 1, strings.Count(string(out), "\n"))
	})

	t.Run("InvalidTemplate", func(t *testing.T) {
		_, err := NewTxtFormatter(map[string]any{"template": "{{ .Timestamp | InvalidFunc }}"}, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid template")
	})
}

func TestJSONFormatter(t *testing.T) {
	f, err := NewJSONFormatter(nil, newTestLogger())
	require.NoError(t, err)

	e := testEntry()
	e.Fields = []any{"count", 3, "level", "spoofed"}
	out, err := f.Format(e)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(out), "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "warning", decoded["level"])
	assert.Equal(t, "default", decoded["logger"])
	assert.Equal(t, "message", decoded["text"])
	assert.Equal(t, float64(3), decoded["count"])
}
