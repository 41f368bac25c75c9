package grammar

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rbright/murmur/internal/format"
)

// Token is one utterance word in recognized and matchable form.
type Token struct {
	Raw  string
	Norm string
}

// Tokenize splits an utterance into words. Words that normalize to nothing
// (stray punctuation) are dropped.
func Tokenize(utterance string) []Token {
	fields := strings.Fields(utterance)
	tokens := make([]Token, 0, len(fields))
	for _, field := range fields {
		normalized := NormalizeWord(field)
		if normalized == "" {
			continue
		}
		tokens = append(tokens, Token{Raw: field, Norm: normalized})
	}
	return tokens
}

// NormalizeWord lowercases a word, strips recognizer pronunciation suffixes
// and accents, and drops everything except letters, digits, and inner hyphens.
func NormalizeWord(word string) string {
	word = format.StripPronunciation(strings.TrimSpace(word))
	word = strings.ToLower(removeAccents(word))

	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func normWords(tokens []Token) []string {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Norm
	}
	return words
}

func rawWords(tokens []Token) []string {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Raw
	}
	return words
}
