// Package config resolves, parses, validates, and defaults murmur configuration.
package config

// Config is the fully materialized runtime configuration used by murmur.
type Config struct {
	Grammar   GrammarConfig
	Output    OutputConfig
	Indicator IndicatorConfig
	Server    ServerConfig
	Vocab     VocabConfig
	Log       LogConfig
}

// GrammarConfig selects the vocabulary definition and its speech boost.
type GrammarConfig struct {
	// File is an optional YAML definition; empty uses the built-in revision.
	File  string
	Boost float64
}

// Output backends.
const (
	BackendHypr    = "hypr"
	BackendWtype   = "wtype"
	BackendRobotgo = "robotgo"
	BackendDryRun  = "dry-run"
)

// Text insertion modes.
const (
	TextModeType  = "type"
	TextModePaste = "paste"
)

// OutputConfig controls how chords and text reach the focused window.
type OutputConfig struct {
	Backend       string
	KeyDelayMS    int
	TextMode      string
	TypeCmd       CommandConfig
	Clipboard     CommandConfig
	PasteCmd      CommandConfig
	PasteShortcut string
}

// IndicatorConfig controls notifications and audio cues. SoundSink names the
// Pulse sink for synthesized cues; empty uses the default sink.
type IndicatorConfig struct {
	Enable          bool
	Backend         string
	DesktopAppName  string
	ShowMatches     bool
	SoundEnable     bool
	SoundAcceptFile string
	SoundErrorFile  string
	SoundSink       string
	TextError       string
	TimeoutMS       int
}

// ServerConfig controls the daemon's listeners. An empty socket uses the
// runtime default; empty GRPC or HTTP addresses disable that listener.
type ServerConfig struct {
	Socket string
	GRPC   string
	HTTP   string
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// VocabConfig controls extra speech phrase sets and dedupe limits.
type VocabConfig struct {
	GlobalSets []string
	Sets       map[string]VocabSet
	MaxPhrases int
}

// VocabSet is one named phrase group with a shared boost value.
type VocabSet struct {
	Name    string
	Boost   float64
	Phrases []string
}

// LogConfig controls the runtime log.
type LogConfig struct {
	Level string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

// SpeechPhrase is the normalized phrase payload exported to engines.
type SpeechPhrase struct {
	Phrase string
	Boost  float32
}
