package logging

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooldev/spool/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_Info(t *testing.T) {
	root := t.TempDir()
	logger := New(root, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("archive", "moved 3 tasks")

	content, err := os.ReadFile(domain.LogPath(root))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[archive]")
	assert.Contains(t, string(content), "moved 3 tasks")
}

func TestLogger_LevelFilter(t *testing.T) {
	root := t.TempDir()
	logger := New(root, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("scan", "skipped")
	logger.Info("scan", "skipped too")
	logger.Error("scan", "kept")

	content, err := os.ReadFile(domain.LogPath(root))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "skipped")
	assert.Contains(t, string(content), "[ERROR] [scan] kept")
}

func TestLogger_DisabledWithEmptyRoot(t *testing.T) {
	logger := New("", slog.LevelDebug)

	// Must not panic or create files anywhere.
	logger.Info("noop", "nothing happens")
	assert.NoError(t, logger.Close())
}

func TestLogger_AppendsAcrossInstances(t *testing.T) {
	root := t.TempDir()

	first := New(root, slog.LevelInfo)
	first.Info("run", "first line")
	require.NoError(t, first.Close())

	second := New(root, slog.LevelInfo)
	second.Info("run", "second line")
	require.NoError(t, second.Close())

	content, err := os.ReadFile(domain.LogPath(root))
	require.NoError(t, err)
	assert.Contains(t, string(content), "first line")
	assert.Contains(t, string(content), "second line")
}
