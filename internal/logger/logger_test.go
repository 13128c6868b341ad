package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Levels(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	tests := []struct {
		level       string
		expectInfo  bool
		expectDebug bool
	}{
		{"debug", true, true},
		{"info", true, false},
		{"INFO", true, false},
		{"warn", false, false},
		{"error", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Init(tt.level, "text", &buf))
			L().Info("info message")
			L().Debug("debug message")
			out := buf.String()
			assert.Equal(t, tt.expectInfo, strings.Contains(out, "info message"))
			assert.Equal(t, tt.expectDebug, strings.Contains(out, "debug message"))
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var buf bytes.Buffer
	require.NoError(t, Init("info", "json", &buf))
	Area("sequence").Info("run started", "loop", 1)
	out := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"area":"sequence"`)
	assert.Contains(t, out, `"loop":1`)
}

func TestInit_Invalid(t *testing.T) {
	var buf bytes.Buffer
	err := Init("loud", "text", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	err = Init("info", "xml", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestL_ReturnsInstalledLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var buf bytes.Buffer
	require.NoError(t, Init("debug", "text", &buf))
	assert.Equal(t, slog.Default(), L())
}
