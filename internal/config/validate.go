package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	switch strings.ToLower(strings.TrimSpace(cfg.Output.Backend)) {
	case "":
		return nil, fmt.Errorf("output.backend must not be empty")
	case BackendHypr, BackendWtype, BackendRobotgo, BackendDryRun:
	default:
		return nil, fmt.Errorf("output.backend must be one of: hypr, wtype, robotgo, dry-run")
	}
	if cfg.Output.KeyDelayMS < 0 {
		return nil, fmt.Errorf("output.key_delay_ms must be >= 0")
	}
	if cfg.Output.KeyDelayMS > 1000 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("output.key_delay_ms=%d slows every chord; sequences of 16 actions will take seconds", cfg.Output.KeyDelayMS)})
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Output.TextMode)) {
	case TextModeType:
		if len(cfg.Output.TypeCmd.Argv) == 0 {
			return nil, fmt.Errorf("output.type_cmd must not be empty when output.text_mode=type")
		}
	case TextModePaste:
		if len(cfg.Output.Clipboard.Argv) == 0 {
			return nil, fmt.Errorf("output.clipboard_cmd must not be empty when output.text_mode=paste")
		}
		if cfg.Output.PasteCmd.Raw != "" && len(cfg.Output.PasteCmd.Argv) == 0 {
			return nil, fmt.Errorf("output.paste_cmd is configured but empty")
		}
		if len(cfg.Output.PasteCmd.Argv) == 0 && strings.TrimSpace(cfg.Output.PasteShortcut) == "" {
			return nil, fmt.Errorf("output.paste_shortcut must not be empty when output.text_mode=paste and output.paste_cmd is unset")
		}
	default:
		return nil, fmt.Errorf("output.text_mode must be one of: type, paste")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if backend == "" {
		return nil, fmt.Errorf("indicator.backend must not be empty")
	}
	if backend != "hypr" && backend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: hypr, desktop")
	}
	if backend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}
	if cfg.Indicator.TimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.timeout_ms must be >= 0")
	}

	if cfg.Grammar.Boost < 0 {
		return nil, fmt.Errorf("grammar.boost must be >= 0")
	}
	if cfg.Vocab.MaxPhrases <= 0 {
		return nil, fmt.Errorf("vocab.max_phrases must be > 0")
	}

	if cfg.Server.GRPC != "" && cfg.Server.GRPC == cfg.Server.HTTP {
		return nil, fmt.Errorf("server.grpc and server.http must not share address %q", cfg.Server.GRPC)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	_, vocabWarnings, err := BuildSpeechPhrases(cfg)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, vocabWarnings...)

	return warnings, nil
}

// ParseLevel maps log.level to a slog level.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
}

// BuildSpeechPhrases merges enabled vocab sets into deterministic phrase payloads.
// Extra sets are merged in order after the ones named in vocab.global.
func BuildSpeechPhrases(cfg Config, extra ...VocabSet) ([]SpeechPhrase, []Warning, error) {
	if len(cfg.Vocab.GlobalSets) == 0 && len(extra) == 0 {
		return nil, nil, nil
	}

	sets := make([]VocabSet, 0, len(cfg.Vocab.GlobalSets)+len(extra))
	for _, name := range cfg.Vocab.GlobalSets {
		set, ok := cfg.Vocab.Sets[name]
		if !ok {
			return nil, nil, fmt.Errorf("vocab.global references unknown set %q", name)
		}
		if set.Name == "" {
			set.Name = name
		}
		sets = append(sets, set)
	}
	sets = append(sets, extra...)

	type candidate struct {
		boost float64
		from  string
	}

	warnings := make([]Warning, 0)
	selected := make(map[string]candidate)

	for _, set := range sets {
		for _, phrase := range set.Phrases {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			if existing, exists := selected[phrase]; exists {
				if set.Boost > existing.boost {
					warnings = append(warnings, Warning{Message: fmt.Sprintf("phrase %q present in %q and %q; using higher boost %.2f", phrase, existing.from, set.Name, set.Boost)})
					selected[phrase] = candidate{boost: set.Boost, from: set.Name}
				}
				continue
			}
			selected[phrase] = candidate{boost: set.Boost, from: set.Name}
		}
	}

	if len(selected) > cfg.Vocab.MaxPhrases {
		return nil, nil, fmt.Errorf("vocabulary phrase count %d exceeds vocab.max_phrases=%d", len(selected), cfg.Vocab.MaxPhrases)
	}

	phrases := make([]SpeechPhrase, 0, len(selected))
	for phrase, c := range selected {
		phrases = append(phrases, SpeechPhrase{Phrase: phrase, Boost: float32(c.boost)})
	}

	sort.Slice(phrases, func(i, j int) bool {
		if phrases[i].Phrase == phrases[j].Phrase {
			return phrases[i].Boost < phrases[j].Boost
		}
		return phrases[i].Phrase < phrases[j].Phrase
	})

	return phrases, warnings, nil
}
