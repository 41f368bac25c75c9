package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLogPathUsesXDGStateHome(t *testing.T) {
	xdgStateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", xdgStateHome)
	t.Setenv("HOME", t.TempDir())

	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdgStateHome, "murmur", "log.jsonl"), path)
}

func TestResolveLogPathFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "state", "murmur", "log.jsonl"), path)
}

func TestNewCreatesWritableJSONLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	runtime, err := New(Options{Level: slog.LevelInfo})
	require.NoError(t, err)

	runtime.Logger.Info("unit-test-log", "component", "logging")
	runtime.Logger.Debug("filtered-out")
	require.NoError(t, runtime.Close())

	contents, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"unit-test-log"`)
	require.Contains(t, string(contents), `"component":"logging"`)
	require.NotContains(t, string(contents), "filtered-out")

	stat, err := os.Stat(runtime.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}

func TestNewMirrorsRecordsAtDebugLevel(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var mirror bytes.Buffer
	runtime, err := New(Options{Level: slog.LevelDebug, Mirror: &mirror})
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close() })

	runtime.Logger.Debug("chord pressed", "chord", "c-a")
	require.Contains(t, mirror.String(), `"msg":"chord pressed"`)
	require.Contains(t, mirror.String(), `"pid":`)
}

func TestDiscardHasNoFile(t *testing.T) {
	runtime := Discard()
	runtime.Logger.Info("ignored")
	require.Empty(t, runtime.Path)
	require.NoError(t, runtime.Close())
}
