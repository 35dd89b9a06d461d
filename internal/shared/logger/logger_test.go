package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrjbutsecond/tessera/internal/infrastructure/config"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggerConfig
		wantLevel slog.Level
	}{
		{"defaults to info", config.LoggerConfig{}, slog.LevelInfo},
		{"debug level", config.LoggerConfig{Level: "debug"}, slog.LevelDebug},
		{"warn level json", config.LoggerConfig{Level: "warn", Format: "json"}, slog.LevelWarn},
		{"error level", config.LoggerConfig{Level: "error"}, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Init(&tt.cfg))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.wantLevel, atomicLevel.Level())
		})
	}
}

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init(&config.LoggerConfig{Level: "info", Format: "json", OutputPath: path}))

	Logger.Info("startup complete", "component", "test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "startup complete"))
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, Init(&config.LoggerConfig{Level: "info"}))

	SetLevel(slog.LevelDebug)
	assert.Equal(t, slog.LevelDebug, atomicLevel.Level())
}
