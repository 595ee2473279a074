package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{" error ", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", Format: FormatJSON, RunID: "run-1"})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("package", "git").Msg("installed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "git", line["package"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "installed", line["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_GeneratesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Format: FormatJSON})
	require.NoError(t, err)

	logger.Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	runID, ok := line["run_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(runID)
	assert.NoError(t, err)
}

func TestNew_ConsoleNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "debug", RunID: "abc"})
	require.NoError(t, err)

	logger.Debug().Str("package", "jq").Msg("probe hit")

	out := buf.String()
	assert.Contains(t, out, "probe hit")
	assert.Contains(t, out, "package=jq")
	assert.Contains(t, out, "run_id=abc")
	assert.NotContains(t, out, "\x1b[")
}

func TestNew_InvalidOptions(t *testing.T) {
	var buf bytes.Buffer

	_, err := New(&buf, Options{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New(&buf, Options{Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}
