package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Warn("holding omitted",
		String("ticker", "AAPL"),
		Int("index", 2),
		Duration("took", 1500*time.Millisecond),
		Decimal("value", decimal.RequireFromString("1234.50")),
		Error(errors.New("not found")),
	)

	m := decodeLine(t, &buf)
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "holding omitted", m["message"])
	assert.Equal(t, "AAPL", m["ticker"])
	assert.Equal(t, float64(2), m["index"])
	assert.Equal(t, float64(1500), m["took"])
	assert.Equal(t, "1234.5", m["value"])
	assert.Equal(t, "not found", m["error"])
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With(String("env", "test"))

	l.Info("ready")
	assert.Equal(t, "test", decodeLine(t, &buf)["env"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stderr"})
	assert.Error(t, err)
}

func TestNewHonoursLevel(t *testing.T) {
	l, err := New(&Config{Level: "warn", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotPanics(t, func() { l.Debug("dropped") })
}

func TestStringsAndAny(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf).With(Strings("sinks", []string{"terminal", "csv"})).
		Info("tracker configured", Any("omitted", map[string]int{"not_found": 2}))

	m := decodeLine(t, &buf)
	assert.Equal(t, "terminal, csv", m["sinks"])
	assert.Equal(t, map[string]interface{}{"not_found": float64(2)}, m["omitted"])
}
