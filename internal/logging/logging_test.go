package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/neomovies/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tc := range tests {
		require.Equal(tc.expected, ParseLevel(tc.input), "ParseLevel(%q)", tc.input)
	}
}

func TestSetupWritesRotatingFile(t *testing.T) {
	require := require.New(t)
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "neo.log")
	logger, closer := Setup(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	logger.Info("hello", "component", "test")
	require.NoError(closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(err)
	require.Contains(string(data), "msg=hello")
	require.Contains(string(data), "component=test")
}
