package output

import (
	"fmt"

	"github.com/rbright/murmur/internal/grammar"
)

// robotgoNames maps key names to robotgo key names or literal characters.
var robotgoNames = map[string]string{
	"up":         "up",
	"down":       "down",
	"left":       "left",
	"right":      "right",
	"pgup":       "pageup",
	"pgdown":     "pagedown",
	"home":       "home",
	"end":        "end",
	"escape":     "esc",
	"tab":        "tab",
	"backspace":  "backspace",
	"delete":     "delete",
	"insert":     "insert",
	"space":      "space",
	"enter":      "enter",
	"bang":       "!",
	"at":         "@",
	"hash":       "#",
	"dollar":     "$",
	"percent":    "%",
	"caret":      "^",
	"asterisk":   "*",
	"lparen":     "(",
	"rparen":     ")",
	"minus":      "-",
	"underscore": "_",
	"plus":       "+",
	"backtick":   "`",
	"tilde":      "~",
	"lbracket":   "[",
	"rbracket":   "]",
	"lbrace":     "{",
	"rbrace":     "}",
	"backslash":  "\\",
	"ampersand":  "&",
	"bar":        "|",
	"colon":      ":",
	"semicolon":  ";",
	"squote":     "'",
	"dquote":     "\"",
	"comma":      ",",
	"dot":        ".",
	"slash":      "/",
	"langle":     "<",
	"rangle":     ">",
	"question":   "?",
	"equal":      "=",
}

func robotgoKey(key string) (string, error) {
	if name, ok := robotgoNames[key]; ok {
		return name, nil
	}
	if grammar.IsBaseKey(key) {
		// letters, digits, and f1..f12 share robotgo's spelling
		return key, nil
	}
	return "", fmt.Errorf("no robotgo key for %q", key)
}

var robotgoMods = map[grammar.Modifier]string{
	grammar.Control: "ctrl",
	grammar.Alt:     "alt",
	grammar.Super:   "cmd",
	grammar.Shift:   "shift",
}

func robotgoModifiers(chord grammar.Chord) []string {
	out := make([]string, 0, len(chord.Modifiers))
	for _, mod := range chord.Modifiers {
		out = append(out, robotgoMods[mod])
	}
	return out
}
