package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"", INFO, false},
		{"INFO", INFO, false},
		{"warning", WARN, false},
		{" error ", ERROR, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: WARN}, &buf)
	require.NoError(t, err)

	logger.Slog().Info("skipped")
	logger.Slog().Warn("kept", "repo", "api")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "repo=api")
}

func TestNewLogger_JSONToFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, err := NewLogger(Config{Level: DEBUG, OutputFile: path, JSONFormat: true}, &console)
	require.NoError(t, err)
	logger.With("component", "pipeline").Slog().Debug("stage done", "stage", "collab")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "stage done", rec["msg"])
	assert.Equal(t, "pipeline", rec["component"])
	assert.Equal(t, "collab", rec["stage"])
	assert.Equal(t, strings.TrimSpace(console.String()), strings.TrimSpace(string(data)))
}

func TestNewLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0644))

	logger, err := NewLogger(Config{OutputFile: path, MaxSize: 32}, &bytes.Buffer{})
	require.NoError(t, err)
	defer logger.Close()

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, rotated, 64)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/orgpulse", true)
	assert.Equal(t, DEBUG, cfg.Level)
	assert.False(t, cfg.JSONFormat)
	assert.True(t, strings.HasPrefix(filepath.Base(cfg.OutputFile), "orgpulse_"))

	cfg = DefaultConfig("/tmp/orgpulse", false)
	assert.Equal(t, INFO, cfg.Level)
	assert.True(t, cfg.JSONFormat)
}
