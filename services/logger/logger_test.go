package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, ErrorLevel, ParseLevel("fatal"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestNewAppLogger_WritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewAppLogger("occupancy", InfoLevel, dir)
	require.NoError(t, err)

	l.With("component", "test").Info("hello %d", 1)
	l.Debug("hidden")

	raw, err := os.ReadFile(filepath.Join(dir, "app-"+time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[occupancy] hello 1")
	assert.Contains(t, string(raw), "component=test")
	assert.NotContains(t, string(raw), "hidden")
}

func TestNewAppLogger_UnusableDirFallsBackToStdout(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewAppLogger("occupancy", InfoLevel, filepath.Join(file, "logs"))
	require.Error(t, err)

	l := NewDefaultLogger(InfoLevel)
	assert.NotPanics(t, func() { l.Warn("still logging: %v", err) })
}
