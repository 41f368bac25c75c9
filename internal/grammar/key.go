package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is one held modifier key, identified by its single-letter code.
type Modifier string

// Closed modifier set, in the codes used by key specs ("cs-a").
const (
	Control Modifier = "c"
	Alt     Modifier = "a"
	Super   Modifier = "w"
	Shift   Modifier = "s"
)

// Name returns the long modifier name.
func (m Modifier) Name() string {
	switch m {
	case Control:
		return "control"
	case Alt:
		return "alt"
	case Super:
		return "super"
	case Shift:
		return "shift"
	default:
		return string(m)
	}
}

// ParseModifier validates one modifier code.
func ParseModifier(code string) (Modifier, error) {
	switch Modifier(strings.TrimSpace(code)) {
	case Control, Alt, Super, Shift:
		return Modifier(strings.TrimSpace(code)), nil
	default:
		return "", fmt.Errorf("unknown modifier %q (want one of c, a, w, s)", code)
	}
}

// baseKeys is the closed set of key names a chord may press.
var baseKeys = func() map[string]struct{} {
	names := []string{
		"up", "down", "left", "right", "pgup", "pgdown", "home", "end",
		"escape", "tab", "backspace", "delete", "insert", "space", "enter",
		"bang", "at", "hash", "dollar", "percent", "caret", "asterisk",
		"lparen", "rparen", "minus", "underscore", "plus", "backtick", "tilde",
		"lbracket", "rbracket", "lbrace", "rbrace", "backslash", "ampersand",
		"bar", "colon", "semicolon", "squote", "dquote", "comma", "dot",
		"slash", "langle", "rangle", "question", "equal",
	}
	for r := 'a'; r <= 'z'; r++ {
		names = append(names, string(r))
	}
	for r := '0'; r <= '9'; r++ {
		names = append(names, string(r))
	}
	for i := 1; i <= 12; i++ {
		names = append(names, "f"+strconv.Itoa(i))
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}()

// IsBaseKey reports whether name is a pressable key.
func IsBaseKey(name string) bool {
	_, ok := baseKeys[name]
	return ok
}

// Chord is one key pressed while zero or more modifiers are held.
type Chord struct {
	Modifiers []Modifier
	Key       string
}

// String renders the chord as a key spec, e.g. "cs-a".
func (c Chord) String() string {
	if len(c.Modifiers) == 0 {
		return c.Key
	}
	var b strings.Builder
	for _, mod := range c.Modifiers {
		b.WriteString(string(mod))
	}
	b.WriteByte('-')
	b.WriteString(c.Key)
	return b.String()
}

// With returns a chord whose modifiers are mods followed by c's own, dropping repeats.
func (c Chord) With(mods ...Modifier) Chord {
	merged := make([]Modifier, 0, len(mods)+len(c.Modifiers))
	seen := make(map[Modifier]bool, len(mods)+len(c.Modifiers))
	for _, list := range [][]Modifier{mods, c.Modifiers} {
		for _, mod := range list {
			if seen[mod] {
				continue
			}
			seen[mod] = true
			merged = append(merged, mod)
		}
	}
	if len(merged) == 0 {
		merged = nil
	}
	return Chord{Modifiers: merged, Key: c.Key}
}

// ParseChord parses one key spec such as "a", "c-d", or "cs-pgup".
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, fmt.Errorf("empty key spec")
	}

	key := spec
	var mods []Modifier
	if idx := strings.IndexByte(spec, '-'); idx > 0 {
		key = spec[idx+1:]
		seen := make(map[Modifier]bool)
		for _, r := range spec[:idx] {
			mod, err := ParseModifier(string(r))
			if err != nil {
				return Chord{}, fmt.Errorf("key spec %q: %w", spec, err)
			}
			if seen[mod] {
				return Chord{}, fmt.Errorf("key spec %q repeats modifier %q", spec, mod)
			}
			seen[mod] = true
			mods = append(mods, mod)
		}
	}

	if !IsBaseKey(key) {
		return Chord{}, fmt.Errorf("key spec %q: unknown key %q", spec, key)
	}
	return Chord{Modifiers: mods, Key: key}, nil
}

// ParseKeySequence parses a comma-separated list of key specs. Each spec may
// carry a ":n" repeat suffix, so "a-m,f,s" yields three chords and "left:3"
// yields three presses of left.
func ParseKeySequence(spec string) ([]Chord, error) {
	parts := strings.Split(spec, ",")
	chords := make([]Chord, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		count := 1
		if idx := strings.LastIndexByte(part, ':'); idx > 0 {
			n, err := strconv.Atoi(part[idx+1:])
			if err != nil || n < 1 || n > MaxRepeat {
				return nil, fmt.Errorf("key sequence %q: invalid repeat in %q", spec, part)
			}
			count = n
			part = part[:idx]
		}
		chord, err := ParseChord(part)
		if err != nil {
			return nil, fmt.Errorf("key sequence %q: %w", spec, err)
		}
		for i := 0; i < count; i++ {
			chords = append(chords, chord)
		}
	}
	return chords, nil
}
