package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionWritesJSONLines(t *testing.T) {
	Setup("production", "info")
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("joined %s", "surfing")
	Debug("not shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "joined surfing", entry["message"])
	assert.Equal(t, "outdoormatch", entry["service"])
}

func TestUnknownLevelFallsBack(t *testing.T) {
	Setup("production", "chatty")
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
