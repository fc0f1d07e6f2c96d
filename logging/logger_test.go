package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)
	t.Cleanup(func() { Init("info", "text", nil) })

	Debug("hidden")
	Error("Database Error", "error", "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Database Error", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Init("error", "text", &buf)
	t.Cleanup(func() { Init("info", "text", nil) })

	Info("before")
	SetLevel("debug")
	With("component", "test").Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
	assert.Contains(t, buf.String(), "component=test")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
