package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	typeCmd := "wtype -"
	clipboard := "wl-copy --trim-newline"

	return Config{
		Grammar: GrammarConfig{Boost: 12},
		Output: OutputConfig{
			Backend:       BackendHypr,
			KeyDelayMS:    0,
			TextMode:      TextModeType,
			TypeCmd:       CommandConfig{Raw: typeCmd, Argv: mustParseArgv(typeCmd)},
			Clipboard:     CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
			PasteShortcut: "CTRL,V",
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "hypr",
			DesktopAppName: "murmur",
			SoundEnable:    true,
			TimeoutMS:      1600,
		},
		Server: ServerConfig{},
		Vocab: VocabConfig{
			GlobalSets: nil,
			Sets:       map[string]VocabSet{},
			MaxPhrases: 1024,
		},
		Log: LogConfig{Level: "info"},
	}
}
