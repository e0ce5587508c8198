package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, slog.LevelError, levelFromString("ERROR"))
	assert.Equal(t, slog.LevelWarn, levelFromString("warning"))
	assert.Equal(t, slog.LevelInfo, levelFromString(" info "))
	assert.Equal(t, slog.LevelDebug, levelFromString(""))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "json")

	log.Debug("hidden")
	log.Info("ingestion finished", "persisted", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ingestion finished", entry["msg"])
	assert.Equal(t, float64(3), entry["persisted"])
}

func TestTextFormatIsDefault(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "debug", "").Debug("tick", "component", "scheduler")

	assert.True(t, strings.Contains(buf.String(), "component=scheduler"))
}
