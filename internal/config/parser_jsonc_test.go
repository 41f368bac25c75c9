package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONCRemovesCommentsAndTrailingCommas(t *testing.T) {
	input := `
{
  // line comment
  "items": [
    "one", /* block comment */
    "two",
  ],
  "nested": {
    "enabled": true,
  },
}
`

	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.NotContains(t, normalized, "//")
	require.NotContains(t, normalized, "/*")
	require.NotContains(t, normalized, ",]")
	require.NotContains(t, normalized, ",}")
}

func TestNormalizeJSONCRetainsCommentLikeTextInsideStrings(t *testing.T) {
	input := `{"value":"contains // and /* comment-like */ text",}`
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Contains(t, normalized, "// and /* comment-like */")
}

func TestNormalizeJSONCUnterminatedBlockCommentFails(t *testing.T) {
	_, err := normalizeJSONC("{ /* unterminated ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated block comment")
}

func TestEnsureSingleJSONValueRejectsExtraPayload(t *testing.T) {
	decoder := json.NewDecoder(strings.NewReader(`{"one":1}{"two":2}`))
	var payload map[string]any
	require.NoError(t, decoder.Decode(&payload))

	err := ensureSingleJSONValue(decoder)
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestOffsetToLineCol(t *testing.T) {
	content := "line1\nline2\nline3"
	line, col := offsetToLineCol(content, 1)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = offsetToLineCol(content, 8) // line2, col2
	require.Equal(t, 2, line)
	require.Equal(t, 2, col)

	line, col = offsetToLineCol(content, 999)
	require.Equal(t, 3, line)
	require.Equal(t, 5, col)
}

func TestJSONCStringListUnmarshal(t *testing.T) {
	var list jsoncStringList
	require.NoError(t, list.UnmarshalJSON([]byte(`["a","b"]`)))
	require.Equal(t, []string{"a", "b"}, []string(list))

	require.NoError(t, list.UnmarshalJSON([]byte(`"a, b, , c"`)))
	require.Equal(t, []string{"a", "b", "c"}, []string(list))

	err := list.UnmarshalJSON([]byte(`123`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected string array")
}

func TestParseJSONCRejectsInvalidCommandArgv(t *testing.T) {
	for _, field := range []string{"type_cmd", "clipboard_cmd", "paste_cmd"} {
		_, _, err := parseJSONC(`{"output":{"`+field+`":"unterminated ' quote"}}`, Default())
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid output."+field)
	}
}

func TestParseJSONCVocabRejectsEmptySetName(t *testing.T) {
	_, _, err := parseJSONC(`{"vocab":{"sets":{" ":{"phrases":["x"]}}}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty set name")
}

func TestParseJSONCTrimsAndLowercasesFields(t *testing.T) {
	cfg, _, err := parseJSONC(`{
  "output": {"backend": " WType ", "text_mode": "Paste", "paste_shortcut": "  CTRL,V  "},
  "indicator": {
    "backend": " desktop ",
    "desktop_app_name": "  murmur-indicator  "
  },
  "log": {"level": " DEBUG "}
}`, Default())
	require.NoError(t, err)
	require.Equal(t, BackendWtype, cfg.Output.Backend)
	require.Equal(t, TextModePaste, cfg.Output.TextMode)
	require.Equal(t, "CTRL,V", cfg.Output.PasteShortcut)
	require.Equal(t, "desktop", cfg.Indicator.Backend)
	require.Equal(t, "murmur-indicator", cfg.Indicator.DesktopAppName)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestParseJSONCFullDocument(t *testing.T) {
	cfg, warnings, err := Parse(`{
  // grammar tables live next to this file
  "grammar": {"file": "grammar.yaml", "boost": 20},
  "output": {
    "backend": "dry-run",
    "key_delay_ms": 15,
    "type_cmd": "ydotool type --file -",
  },
  "indicator": {"show_matches": true, "sound_error_file": "~/sounds/error.wav", "timeout_ms": 900},
  "server": {"socket": "/tmp/murmur.sock", "grpc": "127.0.0.1:7701", "http": "127.0.0.1:7702"},
  "vocab": {
    "global": ["team"],
    "sets": {"team": {"boost": 10, "phrases": ["murmur", "hyprland"]}},
  },
}`, Default())
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, "grammar.yaml", cfg.Grammar.File)
	require.Equal(t, 20.0, cfg.Grammar.Boost)
	require.Equal(t, BackendDryRun, cfg.Output.Backend)
	require.Equal(t, 15, cfg.Output.KeyDelayMS)
	require.Equal(t, []string{"ydotool", "type", "--file", "-"}, cfg.Output.TypeCmd.Argv)
	require.True(t, cfg.Indicator.ShowMatches)
	require.Equal(t, "~/sounds/error.wav", cfg.Indicator.SoundErrorFile)
	require.Equal(t, 900, cfg.Indicator.TimeoutMS)
	require.Equal(t, ServerConfig{Socket: "/tmp/murmur.sock", GRPC: "127.0.0.1:7701", HTTP: "127.0.0.1:7702"}, cfg.Server)
	require.Equal(t, []string{"team"}, cfg.Vocab.GlobalSets)
	require.Equal(t, []string{"murmur", "hyprland"}, cfg.Vocab.Sets["team"].Phrases)
}

func TestParseJSONCDoesNotMutateBaseVocabSets(t *testing.T) {
	base := Default()
	_, _, err := parseJSONC(`{"vocab":{"sets":{"team":{"phrases":["x"]}}}}`, base)
	require.NoError(t, err)
	require.Empty(t, base.Vocab.Sets)
}

func TestParseJSONCRejectsMultipleTopLevelValues(t *testing.T) {
	_, _, err := parseJSONC(`{"log":{"level":"info"}}{"log":{"level":"debug"}}`, Default())
	require.Error(t, err)
	require.True(
		t,
		strings.Contains(err.Error(), "multiple JSON values") || strings.Contains(err.Error(), "unknown field"),
		"unexpected error: %v",
		err,
	)
}

func TestParseJSONCRejectsUnknownFields(t *testing.T) {
	_, _, err := parseJSONC(`{"asr": {"grpc": "127.0.0.1:50051"}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestParseJSONCTypeErrorIncludesLocation(t *testing.T) {
	_, _, err := parseJSONC(`{
  "output": {"key_delay_ms": "slow"}
}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line")
	require.Contains(t, err.Error(), "column")
}

func TestParseJSONCVocabGlobalSupportsCommaString(t *testing.T) {
	cfg, _, err := parseJSONC(`{
  "vocab": {
    "global": "one, two, , three",
    "sets": {
      "one": {"phrases": ["one"]},
      "two": {"phrases": ["two"]},
      "three": {"phrases": ["three"]}
    }
  }
}`, Default())
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three"}, cfg.Vocab.GlobalSets)
}

func TestParseEmptyContentUsesBase(t *testing.T) {
	cfg, warnings, err := Parse("   \n", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}
