package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSpeechPhrasesSortedAndHighestBoostWins(t *testing.T) {
	cfg := Default()
	cfg.Vocab.GlobalSets = []string{"core", "team"}
	cfg.Vocab.Sets["core"] = VocabSet{Name: "core", Boost: 10, Phrases: []string{"beta", "alpha"}}
	cfg.Vocab.Sets["team"] = VocabSet{Name: "team", Boost: 20, Phrases: []string{"alpha", "gamma"}}

	phrases, warnings, err := BuildSpeechPhrases(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Equal(t, []SpeechPhrase{
		{Phrase: "alpha", Boost: 20},
		{Phrase: "beta", Boost: 10},
		{Phrase: "gamma", Boost: 20},
	}, phrases)
}

func TestBuildSpeechPhrasesMergesExtraSets(t *testing.T) {
	cfg := Default()
	cfg.Vocab.GlobalSets = []string{"team"}
	cfg.Vocab.Sets["team"] = VocabSet{Name: "team", Boost: 8, Phrases: []string{"archie", "hyprland"}}

	phrases, warnings, err := BuildSpeechPhrases(cfg, VocabSet{Name: "grammar", Boost: 12, Phrases: []string{"archie", "troll"}})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, `"team" and "grammar"`)
	require.Equal(t, []SpeechPhrase{
		{Phrase: "archie", Boost: 12},
		{Phrase: "hyprland", Boost: 8},
		{Phrase: "troll", Boost: 12},
	}, phrases)
}

func TestValidateRejectsInvalidCoreFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty backend", mutate: func(c *Config) { c.Output.Backend = "" }, wantErr: "output.backend must not be empty"},
		{name: "unknown backend", mutate: func(c *Config) { c.Output.Backend = "xdotool" }, wantErr: "output.backend must be one of"},
		{name: "negative key delay", mutate: func(c *Config) { c.Output.KeyDelayMS = -1 }, wantErr: "key_delay_ms"},
		{name: "unknown text mode", mutate: func(c *Config) { c.Output.TextMode = "telepathy" }, wantErr: "output.text_mode"},
		{name: "empty type argv", mutate: func(c *Config) { c.Output.TypeCmd.Argv = nil }, wantErr: "output.type_cmd"},
		{name: "empty clipboard argv in paste mode", mutate: func(c *Config) {
			c.Output.TextMode = TextModePaste
			c.Output.Clipboard.Argv = nil
		}, wantErr: "output.clipboard_cmd"},
		{name: "paste command raw but empty argv", mutate: func(c *Config) {
			c.Output.TextMode = TextModePaste
			c.Output.PasteCmd.Raw = "mycmd"
			c.Output.PasteCmd.Argv = nil
		}, wantErr: "output.paste_cmd"},
		{name: "missing paste shortcut", mutate: func(c *Config) {
			c.Output.TextMode = TextModePaste
			c.Output.PasteShortcut = ""
		}, wantErr: "output.paste_shortcut"},
		{name: "unknown indicator backend", mutate: func(c *Config) { c.Indicator.Backend = "osd" }, wantErr: "indicator.backend"},
		{name: "desktop without app name", mutate: func(c *Config) {
			c.Indicator.Backend = "desktop"
			c.Indicator.DesktopAppName = ""
		}, wantErr: "desktop_app_name"},
		{name: "negative timeout", mutate: func(c *Config) { c.Indicator.TimeoutMS = -1 }, wantErr: "indicator.timeout_ms"},
		{name: "negative grammar boost", mutate: func(c *Config) { c.Grammar.Boost = -1 }, wantErr: "grammar.boost"},
		{name: "invalid max phrases", mutate: func(c *Config) { c.Vocab.MaxPhrases = 0 }, wantErr: "vocab.max_phrases"},
		{name: "shared listener address", mutate: func(c *Config) {
			c.Server.GRPC = "127.0.0.1:7700"
			c.Server.HTTP = "127.0.0.1:7700"
		}, wantErr: "must not share"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "missing vocab set", mutate: func(c *Config) { c.Vocab.GlobalSets = []string{"missing"} }, wantErr: "unknown set"},
		{name: "phrase limit", mutate: func(c *Config) {
			c.Vocab.MaxPhrases = 1
			c.Vocab.GlobalSets = []string{"team"}
			c.Vocab.Sets = map[string]VocabSet{"team": {Name: "team", Phrases: []string{"one", "two"}}}
		}, wantErr: "exceeds"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnsOnLongKeyDelay(t *testing.T) {
	cfg := Default()
	cfg.Output.KeyDelayMS = 1500

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "key_delay_ms")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)

	level, err = ParseLevel("warning")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("trace")
	require.Error(t, err)
}
