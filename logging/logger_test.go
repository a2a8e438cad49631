package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("info", &buf)
	log.Debug("hidden")
	log.Info("rendering figure", "name", "cascade")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "name=cascade")

	buf.Reset()
	NewLogger("debug", &buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	Discard().Error("nothing")
}
