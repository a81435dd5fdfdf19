package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})
	l.Info("dataset loaded", "rows", 3)

	assert.Contains(t, buf.String(), `"msg":"dataset loaded"`)
	assert.Contains(t, buf.String(), `"rows":3`)
}

func TestNew_TextWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Level: slog.LevelDebug, NoColor: true})
	l.WithField("source", "upload").Debug("cache miss", "key", "a b")

	out := buf.String()
	assert.Contains(t, out, "DBG cache miss")
	assert.Contains(t, out, "source=upload")
	assert.Contains(t, out, `key="a b"`)
	assert.NotContains(t, out, "\033[")
}

func TestTextHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Level: slog.LevelWarn, NoColor: true})
	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN shown")
}

func TestTextHandler_Group(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, NoColor: true})
	l.WithGroup("http").Info("request", "status", 200)
	assert.Contains(t, buf.String(), "http.status=200")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json"})
	l.WithError(errors.New("boom")).Error("load failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	assert.Same(t, l, l.WithError(nil))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing to see")
	assert.NotNil(t, l.Logger)
}
