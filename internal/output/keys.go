package output

import (
	"fmt"
	"strings"

	"github.com/rbright/murmur/internal/grammar"
)

// keysyms maps symbolic key names to XKB keysym names. Letters and digits
// map to themselves.
var keysyms = map[string]string{
	"up":         "Up",
	"down":       "Down",
	"left":       "Left",
	"right":      "Right",
	"pgup":       "Prior",
	"pgdown":     "Next",
	"home":       "Home",
	"end":        "End",
	"escape":     "Escape",
	"tab":        "Tab",
	"backspace":  "BackSpace",
	"delete":     "Delete",
	"insert":     "Insert",
	"space":      "space",
	"enter":      "Return",
	"bang":       "exclam",
	"at":         "at",
	"hash":       "numbersign",
	"dollar":     "dollar",
	"percent":    "percent",
	"caret":      "asciicircum",
	"asterisk":   "asterisk",
	"lparen":     "parenleft",
	"rparen":     "parenright",
	"minus":      "minus",
	"underscore": "underscore",
	"plus":       "plus",
	"backtick":   "grave",
	"tilde":      "asciitilde",
	"lbracket":   "bracketleft",
	"rbracket":   "bracketright",
	"lbrace":     "braceleft",
	"rbrace":     "braceright",
	"backslash":  "backslash",
	"ampersand":  "ampersand",
	"bar":        "bar",
	"colon":      "colon",
	"semicolon":  "semicolon",
	"squote":     "apostrophe",
	"dquote":     "quotedbl",
	"comma":      "comma",
	"dot":        "period",
	"slash":      "slash",
	"langle":     "less",
	"rangle":     "greater",
	"question":   "question",
	"equal":      "equal",
}

// Keysym resolves a key name to its XKB keysym.
func Keysym(key string) (string, error) {
	if sym, ok := keysyms[key]; ok {
		return sym, nil
	}
	if len(key) == 1 && ((key[0] >= 'a' && key[0] <= 'z') || (key[0] >= '0' && key[0] <= '9')) {
		return key, nil
	}
	if strings.HasPrefix(key, "f") && grammar.IsBaseKey(key) {
		return strings.ToUpper(key), nil
	}
	return "", fmt.Errorf("no keysym for key %q", key)
}
