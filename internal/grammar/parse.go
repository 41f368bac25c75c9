package grammar

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rbright/murmur/internal/format"
)

// Top-level rule names reported in Match.Rule.
const (
	RuleLiteral = "literal_rule"
	RulePrefix  = "prefix_rule"
	RuleRepeat  = "repeat_rule"
)

const unreachable = int(^uint(0) >> 1)

type candidate struct {
	action Action
	next   int
}

type formatStart struct {
	style     string
	qualifier format.Qualifier
	next      int
}

type parser struct {
	g      *Grammar
	tokens []Token
	words  []string

	// cands[i] lists every element starting at word i in preference order;
	// least[i] is the fewest elements that cover words[i:].
	cands [][]candidate
	least []int

	// dangling is set when a prefix matched but the utterance ended on the
	// connector word.
	dangling bool
}

// Parse resolves an utterance. Rules are tried in order: literal dictation,
// prefix with optional trailing sequence, then a plain sequence of 1 to
// MaxActions actions. Parse is pure and safe for concurrent use.
func (g *Grammar) Parse(utterance string) (Match, error) {
	tokens := Tokenize(utterance)
	if len(tokens) == 0 {
		return Match{}, ErrEmptyUtterance
	}

	p := &parser{g: g, tokens: tokens, words: normWords(tokens)}
	p.build()

	if m, ok := p.literal(); ok {
		m.Utterance = utterance
		return m, nil
	}

	m, ok, prefixErr := p.prefix()
	if ok {
		m.Utterance = utterance
		return m, nil
	}

	actions, err := p.sequence(0)
	if err == nil {
		return Match{Rule: RuleRepeat, Utterance: utterance, Actions: actions}, nil
	}
	if errors.Is(prefixErr, ErrSequenceTooLong) && !errors.Is(err, ErrSequenceTooLong) {
		err = prefixErr
	}
	if errors.Is(err, ErrSequenceTooLong) {
		return Match{}, fmt.Errorf("%w: %q", err, utterance)
	}
	return Match{}, fmt.Errorf("%w: %q%s", ErrNoMatch, utterance, p.hint())
}

func (p *parser) build() {
	n := len(p.words)
	p.cands = make([][]candidate, n)

	fixed := make([][]candidate, n)
	starts := make([][]formatStart, n)
	for i := 0; i < n; i++ {
		fixed[i] = p.fixedElements(i)
		starts[i] = p.formatStarts(i)
	}

	interrupt := func(i int) bool {
		return i >= n || len(fixed[i]) > 0 || len(starts[i]) > 0
	}

	for i := 0; i < n; i++ {
		cands := fixed[i]
		sort.SliceStable(cands, func(a, b int) bool { return cands[a].next > cands[b].next })

		for _, start := range starts[i] {
			if start.next >= n {
				continue
			}
			for end := start.next + 1; end <= n; end++ {
				if !interrupt(end) {
					continue
				}
				action, err := NewFormat(start.style, start.qualifier, rawWords(p.tokens[start.next:end]))
				if err != nil {
					continue
				}
				cands = append(cands, candidate{action: action, next: end})
			}
		}
		p.cands[i] = cands
	}

	p.least = make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		p.least[i] = unreachable
		for _, c := range p.cands[i] {
			if p.least[c.next] == unreachable {
				continue
			}
			if count := p.least[c.next] + 1; count < p.least[i] {
				p.least[i] = count
			}
		}
	}
}

// fixedElements returns every non-dictation element starting at word i.
func (p *parser) fixedElements(i int) []candidate {
	g := p.g
	out := p.keystrokes(i)
	for _, hit := range g.vocabulary.match(p.words, i) {
		out = append(out, candidate{action: Text{Value: hit.value}, next: i + hit.words})
	}
	for _, hit := range g.commands.match(p.words, i) {
		out = append(out, candidate{action: Invocation{Name: hit.value, Template: g.template}, next: i + hit.words})
	}
	for _, hit := range g.keySequences.match(p.words, i) {
		out = append(out, candidate{action: KeySequence{Spec: hit.value, Chords: g.sequences[hit.value]}, next: i + hit.words})
	}
	return out
}

type repeatHit struct {
	count int
	words int
}

// keystrokes expands `[mod1] [mod2] key [repeat]` at word i.
func (p *parser) keystrokes(i int) []candidate {
	g := p.g

	type modPrefix struct {
		mods []Modifier
		next int
	}
	prefixes := []modPrefix{{next: i}}
	for _, first := range g.modifiers.match(p.words, i) {
		afterFirst := i + first.words
		m1 := g.mods[first.value]
		prefixes = append(prefixes, modPrefix{mods: []Modifier{m1}, next: afterFirst})
		for _, second := range g.modifiers.match(p.words, afterFirst) {
			prefixes = append(prefixes, modPrefix{
				mods: []Modifier{m1, g.mods[second.value]},
				next: afterFirst + second.words,
			})
		}
	}

	var out []candidate
	for _, prefix := range prefixes {
		for _, key := range g.keys.match(p.words, prefix.next) {
			afterKey := prefix.next + key.words
			for _, rep := range p.repeats(afterKey) {
				out = append(out, candidate{
					action: Keystroke{Modifiers: prefix.mods, Base: g.chords[key.value], Count: rep.count},
					next:   afterKey + rep.words,
				})
			}
		}
	}
	return out
}

// repeats lists the ways a repeat specifier can follow word i, including
// none. Spoken counts outside [1,MaxRepeat] are not repeat specifiers.
func (p *parser) repeats(i int) []repeatHit {
	out := []repeatHit{{count: 1}}
	if i >= len(p.words) {
		return out
	}

	switch word := p.words[i]; {
	case word == p.g.words.Twice && word != "":
		out = append(out, repeatHit{count: 2, words: 1})
	case word == p.g.words.Thrice && word != "":
		out = append(out, repeatHit{count: 3, words: 1})
	}

	for _, num := range spokenNumbers(p.words, i) {
		suffix := i + num.words
		if suffix >= len(p.words) || !p.g.times[p.words[suffix]] {
			continue
		}
		if num.value < 1 || num.value > MaxRepeat {
			continue
		}
		out = append(out, repeatHit{count: num.value, words: num.words + 1})
	}
	return out
}

// formatStarts returns every `[qualifier] <format>` opening at word i.
func (p *parser) formatStarts(i int) []formatStart {
	var out []formatStart
	if qualifier, ok := format.ParseQualifier(p.words[i]); ok {
		for _, hit := range p.g.formats.match(p.words, i+1) {
			out = append(out, formatStart{style: hit.value, qualifier: qualifier, next: i + 1 + hit.words})
		}
	}
	for _, hit := range p.g.formats.match(p.words, i) {
		out = append(out, formatStart{style: hit.value, qualifier: format.QualifierNone, next: i + hit.words})
	}
	return out
}

// sequence resolves words[start:] as 1..MaxActions elements, preferring the
// earliest, longest element at each step among parses that fit the bound.
func (p *parser) sequence(start int) ([]Action, error) {
	n := len(p.words)
	if start >= n {
		return nil, ErrNoMatch
	}
	if p.least[start] == unreachable {
		return nil, ErrNoMatch
	}
	if p.least[start] > MaxActions {
		return nil, fmt.Errorf("%w (needs %d)", ErrSequenceTooLong, p.least[start])
	}

	actions := make([]Action, 0, p.least[start])
	budget := MaxActions
	for i := start; i < n; {
		advanced := false
		for _, c := range p.cands[i] {
			rest := p.least[c.next]
			if rest == unreachable || rest+1 > budget {
				continue
			}
			actions = append(actions, c.action)
			budget--
			i = c.next
			advanced = true
			break
		}
		if !advanced {
			return nil, ErrNoMatch
		}
	}
	return actions, nil
}

// literal resolves `literal [qualifier] <format> <dictation...>`, where the
// dictation runs to the end of the utterance.
func (p *parser) literal() (Match, bool) {
	word := p.g.words.Literal
	if word == "" || len(p.words) < 3 || p.words[0] != word {
		return Match{}, false
	}
	for _, start := range p.formatStarts(1) {
		if start.next >= len(p.words) {
			continue
		}
		action, err := NewFormat(start.style, start.qualifier, rawWords(p.tokens[start.next:]))
		if err != nil {
			continue
		}
		return Match{Rule: RuleLiteral, Actions: []Action{action}}, true
	}
	return Match{}, false
}

// prefix resolves `<prefix> [connector] [<sequence>]`.
func (p *parser) prefix() (Match, bool, error) {
	g := p.g
	var heads []candidate
	for _, hit := range g.prefixKeys.match(p.words, 0) {
		heads = append(heads, candidate{action: KeySequence{Spec: hit.value, Chords: g.sequences[hit.value]}, next: hit.words})
	}
	for _, hit := range g.prefixCmds.match(p.words, 0) {
		heads = append(heads, candidate{action: Invocation{Name: hit.value, Template: g.template}, next: hit.words})
	}
	for _, hit := range g.prefixText.match(p.words, 0) {
		heads = append(heads, candidate{action: Text{Value: hit.value}, next: hit.words})
	}
	sort.SliceStable(heads, func(a, b int) bool { return heads[a].next > heads[b].next })

	var lastErr error
	n := len(p.words)
	for _, head := range heads {
		if head.next == n {
			return Match{Rule: RulePrefix, Actions: []Action{head.action}}, true, nil
		}
		rest := head.next
		if connector := g.words.Connector; connector != "" && p.words[rest] == connector {
			rest++
			if rest == n {
				p.dangling = true
				lastErr = ErrNoMatch
				continue
			}
		}
		tail, err := p.sequence(rest)
		if err != nil {
			lastErr = err
			continue
		}
		return Match{Rule: RulePrefix, Actions: append([]Action{head.action}, tail...)}, true, nil
	}
	return Match{}, false, lastErr
}

// hint names the first word no element can start at, or the trailing
// connector when a prefix was followed by nothing else.
func (p *parser) hint() string {
	if p.dangling {
		return fmt.Sprintf(" (nothing follows %q)", p.tokens[len(p.tokens)-1].Raw)
	}
	for i, cands := range p.cands {
		if len(cands) == 0 {
			return fmt.Sprintf(" (nothing matches at %q)", p.tokens[i].Raw)
		}
	}
	return ""
}
