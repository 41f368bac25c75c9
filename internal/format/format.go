// Package format implements the closed set of dictation formatting styles.
package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Qualifier selects case normalization applied before a style runs.
type Qualifier int

const (
	// QualifierNone lowercases every dictated word.
	QualifierNone Qualifier = iota
	// QualifierUpper uppercases every dictated word.
	QualifierUpper
	// QualifierNatural keeps the case the recognizer produced.
	QualifierNatural
)

// String returns the spoken form of the qualifier.
func (q Qualifier) String() string {
	switch q {
	case QualifierUpper:
		return "upper"
	case QualifierNatural:
		return "natural"
	default:
		return ""
	}
}

// ParseQualifier maps a spoken qualifier word to its Qualifier.
func ParseQualifier(word string) (Qualifier, bool) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "upper":
		return QualifierUpper, true
	case "natural":
		return QualifierNatural, true
	default:
		return QualifierNone, false
	}
}

// Func turns a preprocessed word list into one text block.
type Func func(words []string) string

var styles = map[string]Func{
	"proper":    Proper,
	"camel":     Camel,
	"relpath":   joinWith("/"),
	"winpath":   joinWith(`\`),
	"score":     joinWith("_"),
	"sentence":  Sentence,
	"scoped":    joinWith("::"),
	"jumble":    joinWith(""),
	"dotword":   joinWith("."),
	"dashword":  joinWith("-"),
	"natword":   joinWith(" "),
	"snakeword": Snakeword,
	"narrative": Narrative,
}

// Names returns every known style name in sorted order.
func Names() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a style name.
func Lookup(name string) (Func, bool) {
	fn, ok := styles[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// Apply preprocesses raw dictation words and runs the named style over them.
func Apply(name string, qualifier Qualifier, words []string) (string, error) {
	fn, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown format style %q", name)
	}
	return fn(Preprocess(words, qualifier)), nil
}

// Preprocess splits raw dictation into words, strips recognizer pronunciation
// suffixes and hyphens, and applies the qualifier's case rule.
func Preprocess(words []string, qualifier Qualifier) []string {
	out := make([]string, 0, len(words))
	for _, raw := range words {
		for _, word := range strings.Fields(raw) {
			word = StripPronunciation(word)
			word = strings.ReplaceAll(word, "-", "")
			if word == "" {
				continue
			}
			switch qualifier {
			case QualifierUpper:
				word = strings.ToUpper(word)
			case QualifierNatural:
			default:
				word = strings.ToLower(word)
			}
			out = append(out, word)
		}
	}
	return out
}

// StripPronunciation removes a `written\spoken` suffix, keeping the written form.
func StripPronunciation(word string) string {
	if idx := strings.IndexByte(word, '\\'); idx > 0 {
		return word[:idx]
	}
	return word
}

func joinWith(sep string) Func {
	return func(words []string) string {
		return strings.Join(words, sep)
	}
}

// Proper capitalizes and concatenates every word: MyVariableName.
func Proper(words []string) string {
	var b strings.Builder
	for _, word := range words {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

// Camel keeps the first word and capitalizes the rest: myVariableName.
func Camel(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[0] + Proper(words[1:])
}

// Sentence capitalizes the first word and joins with spaces.
func Sentence(words []string) string {
	if len(words) == 0 {
		return ""
	}
	out := append([]string{capitalize(words[0])}, words[1:]...)
	return strings.Join(out, " ")
}

// Snakeword capitalizes the first word and joins with underscores: My_variable_name.
func Snakeword(words []string) string {
	if len(words) == 0 {
		return ""
	}
	out := append([]string{capitalize(words[0])}, words[1:]...)
	return strings.Join(out, "_")
}

// Narrative renders the words as one prose sentence with a closing period.
func Narrative(words []string) string {
	text := Sentence(words)
	if text == "" {
		return ""
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if unicode.IsPunct(last) {
		return text
	}
	return text + "."
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
