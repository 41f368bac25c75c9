package grammar

import (
	"fmt"
	"strings"
	"unicode"
)

// ExpandPattern expands a phrase pattern into every word sequence it accepts.
//
// Patterns are words plus "(a|b c)" alternation groups and "[x]" optional
// groups, nested freely. Words are normalized the same way utterance words are.
func ExpandPattern(pattern string) ([][]string, error) {
	toks := lexPattern(pattern)
	if len(toks) == 0 {
		return nil, fmt.Errorf("pattern %q is empty", pattern)
	}

	p := &patternParser{src: pattern, toks: toks}
	alts, err := p.alternatives()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("pattern %q: unexpected %q", pattern, p.toks[p.pos])
	}

	out := make([][]string, 0, len(alts))
	seen := make(map[string]bool, len(alts))
	for _, words := range alts {
		if len(words) == 0 {
			return nil, fmt.Errorf("pattern %q can match an empty phrase", pattern)
		}
		key := strings.Join(words, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, words)
	}
	return out, nil
}

type patternParser struct {
	src  string
	toks []string
	pos  int
}

func (p *patternParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *patternParser) alternatives() ([][]string, error) {
	var out [][]string
	for {
		seq, err := p.sequence()
		if err != nil {
			return nil, err
		}
		out = append(out, seq...)
		if p.peek() != "|" {
			return out, nil
		}
		p.pos++
	}
}

func (p *patternParser) sequence() ([][]string, error) {
	acc := [][]string{{}}
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		switch tok {
		case "|", ")", "]":
			return acc, nil
		case "(", "[":
			p.pos++
			inner, err := p.alternatives()
			if err != nil {
				return nil, err
			}
			closing := ")"
			if tok == "[" {
				closing = "]"
			}
			if p.peek() != closing {
				return nil, fmt.Errorf("pattern %q: missing %q", p.src, closing)
			}
			p.pos++
			if tok == "[" {
				inner = append(inner, []string{})
			}
			acc = product(acc, inner)
		default:
			p.pos++
			acc = product(acc, [][]string{{tok}})
		}
	}
	return acc, nil
}

func product(prefixes, suffixes [][]string) [][]string {
	out := make([][]string, 0, len(prefixes)*len(suffixes))
	for _, prefix := range prefixes {
		for _, suffix := range suffixes {
			words := make([]string, 0, len(prefix)+len(suffix))
			words = append(words, prefix...)
			words = append(words, suffix...)
			out = append(out, words)
		}
	}
	return out
}

func lexPattern(pattern string) []string {
	var (
		toks    []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := NormalizeWord(current.String()); word != "" {
			toks = append(toks, word)
		}
		current.Reset()
	}

	for _, r := range pattern {
		switch {
		case r == '(' || r == ')' || r == '[' || r == ']' || r == '|':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return toks
}
