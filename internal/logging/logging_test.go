package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	defer closer()

	assert.ErrorContains(t, err, "parse log level")
}

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "reviewdeck.log")

	logger, closer, err := New("warn", file)
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Str("pr", "33").Msg("kept")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "33", entry["pr"])
	assert.Equal(t, "kept", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.ErrorLevel)

	logger.Warn().Msg("below level")
	assert.Zero(t, buf.Len())

	logger.Error().Msg("at level")
	assert.Contains(t, buf.String(), `"message":"at level"`)
}
