package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse reads JSONC configuration content over base. Comments and trailing
// commas are allowed; unknown fields are rejected.
func Parse(content string, base Config) (Config, []Warning, error) {
	if strings.TrimSpace(content) == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}
	return parseJSONC(content, base)
}

type jsoncConfig struct {
	Grammar   *jsoncGrammar   `json:"grammar"`
	Output    *jsoncOutput    `json:"output"`
	Indicator *jsoncIndicator `json:"indicator"`
	Server    *jsoncServer    `json:"server"`
	Vocab     *jsoncVocab     `json:"vocab"`
	Log       *jsoncLog       `json:"log"`
}

type jsoncGrammar struct {
	File  *string  `json:"file"`
	Boost *float64 `json:"boost"`
}

type jsoncOutput struct {
	Backend       *string `json:"backend"`
	KeyDelayMS    *int    `json:"key_delay_ms"`
	TextMode      *string `json:"text_mode"`
	TypeCmd       *string `json:"type_cmd"`
	ClipboardCmd  *string `json:"clipboard_cmd"`
	PasteCmd      *string `json:"paste_cmd"`
	PasteShortcut *string `json:"paste_shortcut"`
}

type jsoncIndicator struct {
	Enable          *bool   `json:"enable"`
	Backend         *string `json:"backend"`
	DesktopAppName  *string `json:"desktop_app_name"`
	ShowMatches     *bool   `json:"show_matches"`
	SoundEnable     *bool   `json:"sound_enable"`
	SoundAcceptFile *string `json:"sound_accept_file"`
	SoundErrorFile  *string `json:"sound_error_file"`
	SoundSink       *string `json:"sound_sink"`
	TextError       *string `json:"text_error"`
	TimeoutMS       *int    `json:"timeout_ms"`
}

type jsoncServer struct {
	Socket *string `json:"socket"`
	GRPC   *string `json:"grpc"`
	HTTP   *string `json:"http"`
}

type jsoncVocab struct {
	Global     *jsoncStringList         `json:"global"`
	MaxPhrases *int                     `json:"max_phrases"`
	Sets       map[string]jsoncVocabSet `json:"sets"`
}

type jsoncVocabSet struct {
	Boost   *float64 `json:"boost"`
	Phrases []string `json:"phrases"`
}

type jsoncLog struct {
	Level *string `json:"level"`
}

type jsoncStringList []string

func (l *jsoncStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		parts := strings.Split(single, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		*l = out
		return nil
	}

	return fmt.Errorf("expected string array or comma-delimited string")
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Grammar != nil {
		if payload.Grammar.File != nil {
			cfg.Grammar.File = strings.TrimSpace(*payload.Grammar.File)
		}
		if payload.Grammar.Boost != nil {
			cfg.Grammar.Boost = *payload.Grammar.Boost
		}
	}

	if out := payload.Output; out != nil {
		if out.Backend != nil {
			cfg.Output.Backend = strings.ToLower(strings.TrimSpace(*out.Backend))
		}
		if out.KeyDelayMS != nil {
			cfg.Output.KeyDelayMS = *out.KeyDelayMS
		}
		if out.TextMode != nil {
			cfg.Output.TextMode = strings.ToLower(strings.TrimSpace(*out.TextMode))
		}
		if out.PasteShortcut != nil {
			cfg.Output.PasteShortcut = strings.TrimSpace(*out.PasteShortcut)
		}

		commands := []struct {
			name string
			raw  *string
			dst  *CommandConfig
		}{
			{name: "output.type_cmd", raw: out.TypeCmd, dst: &cfg.Output.TypeCmd},
			{name: "output.clipboard_cmd", raw: out.ClipboardCmd, dst: &cfg.Output.Clipboard},
			{name: "output.paste_cmd", raw: out.PasteCmd, dst: &cfg.Output.PasteCmd},
		}
		for _, command := range commands {
			if command.raw == nil {
				continue
			}
			argv, err := parseArgv(*command.raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", command.name, err)
			}
			*command.dst = CommandConfig{Raw: *command.raw, Argv: argv}
		}
	}

	if ind := payload.Indicator; ind != nil {
		if ind.Enable != nil {
			cfg.Indicator.Enable = *ind.Enable
		}
		if ind.Backend != nil {
			cfg.Indicator.Backend = strings.TrimSpace(*ind.Backend)
		}
		if ind.DesktopAppName != nil {
			cfg.Indicator.DesktopAppName = strings.TrimSpace(*ind.DesktopAppName)
		}
		if ind.ShowMatches != nil {
			cfg.Indicator.ShowMatches = *ind.ShowMatches
		}
		if ind.SoundEnable != nil {
			cfg.Indicator.SoundEnable = *ind.SoundEnable
		}
		if ind.SoundAcceptFile != nil {
			cfg.Indicator.SoundAcceptFile = strings.TrimSpace(*ind.SoundAcceptFile)
		}
		if ind.SoundErrorFile != nil {
			cfg.Indicator.SoundErrorFile = strings.TrimSpace(*ind.SoundErrorFile)
		}
		if ind.SoundSink != nil {
			cfg.Indicator.SoundSink = strings.TrimSpace(*ind.SoundSink)
		}
		if ind.TextError != nil {
			cfg.Indicator.TextError = *ind.TextError
		}
		if ind.TimeoutMS != nil {
			cfg.Indicator.TimeoutMS = *ind.TimeoutMS
		}
	}

	if srv := payload.Server; srv != nil {
		if srv.Socket != nil {
			cfg.Server.Socket = strings.TrimSpace(*srv.Socket)
		}
		if srv.GRPC != nil {
			cfg.Server.GRPC = strings.TrimSpace(*srv.GRPC)
		}
		if srv.HTTP != nil {
			cfg.Server.HTTP = strings.TrimSpace(*srv.HTTP)
		}
	}

	if payload.Vocab != nil {
		if payload.Vocab.Global != nil {
			cfg.Vocab.GlobalSets = nil
			for _, name := range *payload.Vocab.Global {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				cfg.Vocab.GlobalSets = append(cfg.Vocab.GlobalSets, name)
			}
		}
		if payload.Vocab.MaxPhrases != nil {
			cfg.Vocab.MaxPhrases = *payload.Vocab.MaxPhrases
		}
		if payload.Vocab.Sets != nil {
			sets := make(map[string]VocabSet, len(cfg.Vocab.Sets)+len(payload.Vocab.Sets))
			for name, set := range cfg.Vocab.Sets {
				sets[name] = set
			}
			for name, set := range payload.Vocab.Sets {
				trimmedName := strings.TrimSpace(name)
				if trimmedName == "" {
					return nil, fmt.Errorf("vocab.sets contains an empty set name")
				}

				phrases := make([]string, 0, len(set.Phrases))
				phrases = append(phrases, set.Phrases...)

				entry := VocabSet{Name: trimmedName, Phrases: phrases}
				if set.Boost != nil {
					entry.Boost = *set.Boost
				}
				sets[trimmedName] = entry
			}
			cfg.Vocab.Sets = sets
		}
	}

	if payload.Log != nil && payload.Log.Level != nil {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
	}

	return warnings, nil
}

func normalizeJSONC(content string) (string, error) {
	withoutComments, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(withoutComments), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			if ch == '\r' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
