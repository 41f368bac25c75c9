// Package grammar compiles vocabulary definitions and resolves utterances
// into ordered actions.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rbright/murmur/internal/format"
)

var (
	// ErrEmptyUtterance is returned for utterances with no matchable words.
	ErrEmptyUtterance = errors.New("empty utterance")
	// ErrNoMatch is returned when no rule accepts the utterance.
	ErrNoMatch = errors.New("no rule matches utterance")
	// ErrSequenceTooLong is returned when an utterance only parses as more
	// than MaxActions actions.
	ErrSequenceTooLong = fmt.Errorf("sequence exceeds %d actions", MaxActions)
	// ErrAlreadyLoaded is returned by Load on a grammar that is registered.
	ErrAlreadyLoaded = errors.New("grammar already loaded")
)

// Host is the recognition engine's vocabulary registry.
type Host interface {
	Register(tag string, phrases []string) error
	Unregister(tag string) error
}

// TagPrefix namespaces every vocabulary tag this package registers.
const TagPrefix = "murmur."

// TagVocabulary is one registered tag and its phrases.
type TagVocabulary struct {
	Tag     string
	Phrases []string
}

// Grammar is a compiled, immutable definition plus its host registration state.
type Grammar struct {
	revision int

	keys         *Table
	modifiers    *Table
	formats      *Table
	vocabulary   *Table
	keySequences *Table
	commands     *Table
	prefixKeys   *Table
	prefixCmds   *Table
	prefixText   *Table

	chords    map[string]Chord
	sequences map[string][]Chord
	mods      map[string]Modifier
	template  CommandTemplate
	words     RuleWords
	times     map[string]bool

	mu         sync.Mutex
	host       Host
	registered []string
}

// Compile validates a definition and builds its lookup tables. Every
// configuration defect fails here: bad patterns, duplicate phrases, unknown
// keys or modifiers, and unknown format styles.
func Compile(def Definition) (*Grammar, error) {
	g := &Grammar{
		revision:  def.Revision,
		chords:    make(map[string]Chord),
		sequences: make(map[string][]Chord),
		mods:      make(map[string]Modifier),
		words:     def.Words,
		times:     make(map[string]bool),
	}

	tables := []struct {
		dst     **Table
		name    string
		mapping Mapping
	}{
		{&g.keys, "keys", def.Keys},
		{&g.modifiers, "modifiers", def.Modifiers},
		{&g.formats, "formats", def.Formats},
		{&g.vocabulary, "vocabulary", def.Vocabulary},
		{&g.keySequences, "key_sequences", def.KeySequences},
		{&g.commands, "commands", def.Commands},
		{&g.prefixKeys, "prefix.keys", def.Prefix.Keys},
		{&g.prefixCmds, "prefix.commands", def.Prefix.Commands},
		{&g.prefixText, "prefix.text", def.Prefix.Text},
	}
	for _, tbl := range tables {
		compiled, err := NewTable(tbl.name, tbl.mapping)
		if err != nil {
			return nil, err
		}
		*tbl.dst = compiled
	}
	if g.keys.Len() == 0 {
		return nil, fmt.Errorf("keys: table must not be empty")
	}

	for _, value := range g.keys.Values() {
		chord, err := ParseChord(value)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		g.chords[value] = chord
	}
	for _, value := range g.modifiers.Values() {
		mod, err := ParseModifier(value)
		if err != nil {
			return nil, fmt.Errorf("modifiers: %w", err)
		}
		g.mods[value] = mod
	}
	for _, value := range g.formats.Values() {
		if _, ok := format.Lookup(value); !ok {
			return nil, fmt.Errorf("formats: unknown format style %q (known: %s)", value, strings.Join(format.Names(), ", "))
		}
	}
	for _, tbl := range []*Table{g.keySequences, g.prefixKeys} {
		for _, value := range tbl.Values() {
			chords, err := ParseKeySequence(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tbl.Name(), err)
			}
			g.sequences[value] = chords
		}
	}

	template, err := compileTemplate(def.CommandTemplate)
	if err != nil {
		return nil, err
	}
	g.template = template

	for _, word := range def.Words.Times {
		if word = NormalizeWord(word); word != "" {
			g.times[word] = true
		}
	}

	return g, nil
}

func compileTemplate(spec TemplateSpec) (CommandTemplate, error) {
	var template CommandTemplate
	if strings.TrimSpace(spec.Before) != "" {
		chords, err := ParseKeySequence(spec.Before)
		if err != nil {
			return CommandTemplate{}, fmt.Errorf("command_template.before: %w", err)
		}
		template.Before = chords
	}
	if strings.TrimSpace(spec.After) != "" {
		chords, err := ParseKeySequence(spec.After)
		if err != nil {
			return CommandTemplate{}, fmt.Errorf("command_template.after: %w", err)
		}
		template.After = chords
	}
	template.Text = spec.Text
	return template, nil
}

// Revision returns the definition revision this grammar was compiled from.
func (g *Grammar) Revision() int {
	return g.revision
}

// Vocabulary returns every tag this grammar registers, in registration order.
func (g *Grammar) Vocabulary() []TagVocabulary {
	prefix := append(append(g.prefixKeys.Phrases(), g.prefixCmds.Phrases()...), g.prefixText.Phrases()...)
	sort.Strings(prefix)

	out := []TagVocabulary{
		{Tag: TagPrefix + "keys", Phrases: g.keys.Phrases()},
		{Tag: TagPrefix + "modifiers", Phrases: g.modifiers.Phrases()},
		{Tag: TagPrefix + "formats", Phrases: g.formats.Phrases()},
		{Tag: TagPrefix + "vocabulary", Phrases: g.vocabulary.Phrases()},
		{Tag: TagPrefix + "key_sequences", Phrases: g.keySequences.Phrases()},
		{Tag: TagPrefix + "commands", Phrases: g.commands.Phrases()},
		{Tag: TagPrefix + "prefix", Phrases: prefix},
		{Tag: TagPrefix + "rules", Phrases: g.ruleWords()},
	}

	filtered := out[:0]
	for _, tv := range out {
		if len(tv.Phrases) > 0 {
			filtered = append(filtered, tv)
		}
	}
	return filtered
}

func (g *Grammar) ruleWords() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(words ...string) {
		for _, word := range words {
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			out = append(out, word)
		}
	}

	add(g.words.Literal, g.words.Connector, g.words.Twice, g.words.Thrice)
	add(g.words.Times...)
	add(format.QualifierUpper.String(), format.QualifierNatural.String())
	for _, table := range []map[string]int{unitWords, teenWords, tensWords} {
		for word := range table {
			add(word)
		}
	}
	add("hundred")
	sort.Strings(out)
	return out
}

// Load registers every vocabulary tag with host. A failed registration rolls
// back the tags already registered.
func (g *Grammar) Load(host Host) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.host != nil {
		return ErrAlreadyLoaded
	}

	vocab := g.Vocabulary()
	registered := make([]string, 0, len(vocab))
	for _, tv := range vocab {
		if err := host.Register(tv.Tag, tv.Phrases); err != nil {
			rollback := unregisterAll(host, registered)
			return errors.Join(fmt.Errorf("register %s: %w", tv.Tag, err), rollback)
		}
		registered = append(registered, tv.Tag)
	}

	g.host = host
	g.registered = registered
	return nil
}

// Unload releases every tag registered by Load, in reverse order. Unloading
// a grammar that is not loaded is a no-op.
func (g *Grammar) Unload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.host == nil {
		return nil
	}
	err := unregisterAll(g.host, g.registered)
	g.host = nil
	g.registered = nil
	return err
}

// Loaded reports whether the grammar is registered with a host.
func (g *Grammar) Loaded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.host != nil
}

func unregisterAll(host Host, tags []string) error {
	var errs []error
	for i := len(tags) - 1; i >= 0; i-- {
		if err := host.Unregister(tags[i]); err != nil {
			errs = append(errs, fmt.Errorf("unregister %s: %w", tags[i], err))
		}
	}
	return errors.Join(errs...)
}
