package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Table is one compiled lexical mapping: spoken phrase to canonical value.
type Table struct {
	name     string
	entries  map[string]string
	sources  map[string]string
	maxWords int
}

type tableHit struct {
	value string
	words int
}

// NewTable compiles value -> patterns into a phrase lookup table. Two
// patterns in one table expanding to the same phrase is an error, even when
// they map to the same value.
func NewTable(name string, mapping map[string][]string) (*Table, error) {
	t := &Table{
		name:    name,
		entries: make(map[string]string),
		sources: make(map[string]string),
	}

	values := make([]string, 0, len(mapping))
	for value := range mapping {
		values = append(values, value)
	}
	sort.Strings(values)

	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%s: empty value", name)
		}
		for _, pattern := range mapping[value] {
			expanded, err := ExpandPattern(pattern)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			for _, words := range expanded {
				phrase := strings.Join(words, " ")
				if prev, exists := t.sources[phrase]; exists {
					return nil, fmt.Errorf("%s: phrase %q defined by both %q and %q", name, phrase, prev, pattern)
				}
				t.entries[phrase] = value
				t.sources[phrase] = pattern
				if len(words) > t.maxWords {
					t.maxWords = len(words)
				}
			}
		}
		if len(mapping[value]) == 0 {
			return nil, fmt.Errorf("%s: value %q has no phrases", name, value)
		}
	}
	return t, nil
}

// Name returns the table's name.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of distinct phrases.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup resolves an exact phrase.
func (t *Table) Lookup(phrase string) (string, bool) {
	if t == nil {
		return "", false
	}
	value, ok := t.entries[strings.Join(strings.Fields(strings.ToLower(phrase)), " ")]
	return value, ok
}

// Phrases returns every phrase in sorted order.
func (t *Table) Phrases() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.entries))
	for phrase := range t.entries {
		out = append(out, phrase)
	}
	sort.Strings(out)
	return out
}

// Values returns distinct values in sorted order.
func (t *Table) Values() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, value := range t.entries {
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// match returns every phrase starting at words[start], longest first.
func (t *Table) match(words []string, start int) []tableHit {
	if t == nil || start >= len(words) {
		return nil
	}
	limit := t.maxWords
	if rest := len(words) - start; rest < limit {
		limit = rest
	}

	var hits []tableHit
	for n := limit; n >= 1; n-- {
		if value, ok := t.entries[strings.Join(words[start:start+n], " ")]; ok {
			hits = append(hits, tableHit{value: value, words: n})
		}
	}
	return hits
}
