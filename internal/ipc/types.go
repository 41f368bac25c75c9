package ipc

// Request is one JSON line sent to the daemon socket.
type Request struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"`
}

// Response is the daemon's single JSON line reply.
type Response struct {
	OK       bool     `json:"ok"`
	State    string   `json:"state,omitempty"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
	Rule     string   `json:"rule,omitempty"`
	Plan     []string `json:"plan,omitempty"`
	Commands []string `json:"commands,omitempty"`
	Failures []string `json:"failures,omitempty"`
	Phrases  []string `json:"phrases,omitempty"`
	Revision int      `json:"revision,omitempty"`

	SpeechPhrases []SpeechPhrase `json:"speech_phrases,omitempty"`
}

// SpeechPhrase is one boosted phrase offered to a speech engine.
type SpeechPhrase struct {
	Phrase string  `json:"phrase"`
	Boost  float32 `json:"boost"`
}
