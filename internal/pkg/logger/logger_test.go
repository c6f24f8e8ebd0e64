package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_TagsEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{App: "dashpro", Version: "v1", Env: "test", Level: "info"})

	log.Debug("hidden")
	log.Info("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dashpro", entry["app"])
	assert.Equal(t, "test", entry["env"])
	assert.NotContains(t, buf.String(), "hidden")
}
