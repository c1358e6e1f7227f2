package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		" warn ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "synapsectl.log")

	logger, flush, err := New(path, "debug")
	require.NoError(t, err)
	logger.Debug("http request start")
	logger.Info("http response")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"http request start"`)
	assert.Contains(t, lines[1], `"logger":"synapsectl"`)
}

func TestNew_EnvLevelOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "app.log")

	logger, flush, err := New(path, "debug")
	require.NoError(t, err)
	logger.Info("dropped")
	flush()

	data, err := os.ReadFile(path)
	if err == nil {
		assert.NotContains(t, string(data), "dropped")
	}

	_, _, err = New("", "info")
	assert.Error(t, err)
}
