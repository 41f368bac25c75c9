package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/grammar"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default().Output

	cfg.Backend = config.BackendHypr
	inj, err := New(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &HyprInjector{}, inj)

	cfg.Backend = "WTYPE"
	inj, err = New(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &WtypeInjector{}, inj)

	cfg.Backend = config.BackendDryRun
	inj, err = New(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &Recorder{}, inj)

	cfg.Backend = "xdotool"
	_, err = New(cfg, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported output backend")
}

func TestKeysym(t *testing.T) {
	tests := map[string]string{
		"a":        "a",
		"7":        "7",
		"f11":      "F11",
		"enter":    "Return",
		"pgdown":   "Next",
		"squote":   "apostrophe",
		"dot":      "period",
		"question": "question",
	}
	for key, want := range tests {
		got, err := Keysym(key)
		require.NoError(t, err, key)
		require.Equal(t, want, got, key)
	}

	_, err := Keysym("hyper")
	require.Error(t, err)
}

func TestEveryBaseKeyHasKeysymAndRobotgoName(t *testing.T) {
	names := []string{"up", "pgup", "backspace", "bang", "ampersand", "equal", "z", "0", "f1", "f12"}
	for _, name := range names {
		require.True(t, grammar.IsBaseKey(name), name)
		_, err := Keysym(name)
		require.NoError(t, err, name)
		_, err = robotgoKey(name)
		require.NoError(t, err, name)
	}
	for name := range keysyms {
		require.True(t, grammar.IsBaseKey(name), name)
		_, ok := robotgoNames[name]
		require.True(t, ok, name)
	}
}

func TestRobotgoModifiers(t *testing.T) {
	chord := grammar.Chord{Modifiers: []grammar.Modifier{grammar.Control, grammar.Super}, Key: "a"}
	require.Equal(t, []string{"ctrl", "cmd"}, robotgoModifiers(chord))
}

func TestBuildShortcut(t *testing.T) {
	t.Parallel()

	t.Run("chord with modifiers", func(t *testing.T) {
		chord := grammar.Chord{Modifiers: []grammar.Modifier{grammar.Control, grammar.Shift}, Key: "a"}
		got, err := buildShortcut(chord, "0xabc")
		require.NoError(t, err)
		require.Equal(t, "CTRL SHIFT,a,address:0xabc", got)
	})

	t.Run("bare key", func(t *testing.T) {
		got, err := buildShortcut(grammar.Chord{Key: "enter"}, "0xabc")
		require.NoError(t, err)
		require.Equal(t, ",Return,address:0xabc", got)
	})

	t.Run("rejects empty address", func(t *testing.T) {
		_, err := buildShortcut(grammar.Chord{Key: "a"}, " ")
		require.Error(t, err)
		require.Contains(t, err.Error(), "address")
	})
}

func TestBuildPasteShortcut(t *testing.T) {
	got, err := buildPasteShortcut("SUPER,V", "0xabc")
	require.NoError(t, err)
	require.Equal(t, "SUPER,V,address:0xabc", got)

	_, err = buildPasteShortcut("", "0xabc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "shortcut")

	_, err = buildPasteShortcut("CTRL,V", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "address")
}

func TestHyprInjectorPressChordDispatchesShortcut(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	t.Setenv("HYPR_ACTIVEWINDOW_JSON", `{"address":"0xabc","class":"ghostty","initialClass":"ghostty"}`)
	installHyprctlStub(t)

	inj := &HyprInjector{text: NewTextInserter(config.Default().Output, nil)}
	err := inj.PressChord(context.Background(), grammar.Chord{Modifiers: []grammar.Modifier{grammar.Control}, Key: "a"})
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "--quiet dispatch sendshortcut CTRL,a,address:0xabc")
}

func TestHyprInjectorFailsWhenActiveWindowAddressMissing(t *testing.T) {
	t.Setenv("HYPR_ARGS_FILE", filepath.Join(t.TempDir(), "hypr-args.log"))
	t.Setenv("HYPR_ACTIVEWINDOW_JSON", `{"address":"","class":"brave-browser"}`)
	installHyprctlStub(t)

	inj := &HyprInjector{}
	err := inj.PressChord(context.Background(), grammar.Chord{Key: "a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty address")
}

func TestActiveWindowWithRetryHonorsContextCancel(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := activeWindowWithRetry(ctx, 3, 10*time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWtypeArgv(t *testing.T) {
	chord := grammar.Chord{Modifiers: []grammar.Modifier{grammar.Control, grammar.Super}, Key: "left"}
	argv, err := wtypeArgv(chord)
	require.NoError(t, err)
	require.Equal(t, []string{"wtype", "-M", "ctrl", "-M", "logo", "-k", "Left", "-m", "logo", "-m", "ctrl"}, argv)

	argv, err = wtypeArgv(grammar.Chord{Key: "x"})
	require.NoError(t, err)
	require.Equal(t, []string{"wtype", "-k", "x"}, argv)
}

func TestWtypeInjectorRunsWtype(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "wtype-args.log")
	t.Setenv("WTYPE_ARGS_FILE", argsFile)
	installStub(t, "wtype", `printf '%s\n' "$*" >> "${WTYPE_ARGS_FILE}"`)

	inj := &WtypeInjector{}
	require.NoError(t, inj.PressChord(context.Background(), grammar.Chord{Modifiers: []grammar.Modifier{grammar.Alt}, Key: "x"}))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "-M alt -k x -m alt\n", string(data))
}

func TestRecorderRecordsInOrder(t *testing.T) {
	rec := NewRecorder(nil)
	require.NoError(t, rec.PressChord(context.Background(), grammar.Chord{Key: "a"}))
	require.NoError(t, rec.TypeText(context.Background(), "hello"))

	cmds := rec.Commands()
	require.Len(t, cmds, 2)
	require.Equal(t, grammar.KindChord, cmds[0].Kind)
	require.Equal(t, "a", cmds[0].Chord.Key)
	require.Equal(t, grammar.KindText, cmds[1].Kind)
	require.Equal(t, "hello", cmds[1].Text)

	rec.Reset()
	require.Empty(t, rec.Commands())
}

func installHyprctlStub(t *testing.T) {
	t.Helper()

	installStub(t, "hyprctl", `
if [[ "${1:-}" == "-j" && "${2:-}" == "activewindow" ]]; then
  if [[ -n "${HYPR_ACTIVEWINDOW_JSON:-}" ]]; then
    echo "${HYPR_ACTIVEWINDOW_JSON}"
  else
    echo '{"address":"0xabc","class":"brave-browser","initialClass":"brave-browser"}'
  fi
  exit 0
fi
printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"
`)
}

func installStub(t *testing.T, name string, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + strings.TrimSpace(body) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
