package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Mapping is value -> phrase patterns for one lexical table.
type Mapping map[string][]string

// Definition is one deployed vocabulary revision.
type Definition struct {
	Revision        int              `yaml:"revision"`
	Extend          bool             `yaml:"extend,omitempty"`
	Keys            Mapping          `yaml:"keys"`
	Modifiers       Mapping          `yaml:"modifiers"`
	Formats         Mapping          `yaml:"formats"`
	Vocabulary      Mapping          `yaml:"vocabulary"`
	KeySequences    Mapping          `yaml:"key_sequences"`
	Commands        Mapping          `yaml:"commands"`
	Prefix          PrefixDefinition `yaml:"prefix"`
	CommandTemplate TemplateSpec     `yaml:"command_template"`
	Words           RuleWords        `yaml:"words"`
}

// PrefixDefinition holds the tables allowed to open a prefix utterance.
type PrefixDefinition struct {
	Keys     Mapping `yaml:"keys"`
	Commands Mapping `yaml:"commands"`
	Text     Mapping `yaml:"text"`
}

// TemplateSpec is the declarative form of CommandTemplate.
type TemplateSpec struct {
	Before string `yaml:"before"`
	Text   string `yaml:"text"`
	After  string `yaml:"after"`
}

// RuleWords are the fixed words the rules themselves use.
type RuleWords struct {
	Literal   string   `yaml:"literal"`
	Connector string   `yaml:"connector"`
	Twice     string   `yaml:"twice"`
	Thrice    string   `yaml:"thrice"`
	Times     []string `yaml:"times"`
}

// LoadDefinitionFile decodes a YAML grammar file. When the file sets
// `extend: true` its tables are merged over base; otherwise it replaces base
// outright.
func LoadDefinitionFile(path string, base Definition) (Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read grammar %q: %w", path, err)
	}
	def, err := DecodeDefinition(content, base)
	if err != nil {
		return Definition{}, fmt.Errorf("parse grammar %q: %w", path, err)
	}
	return def, nil
}

// FileSource returns a definition loader for path. An empty path yields the
// built-in definition; a file is decoded over it.
func FileSource(path string) func() (Definition, error) {
	return func() (Definition, error) {
		if path == "" {
			return Default(), nil
		}
		return LoadDefinitionFile(path, Default())
	}
}

// DecodeDefinition decodes YAML grammar content. Unknown fields are rejected.
func DecodeDefinition(content []byte, base Definition) (Definition, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var def Definition
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return Definition{}, err
	}

	var extra Definition
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return Definition{}, fmt.Errorf("multiple YAML documents are not allowed")
	}

	if !def.Extend {
		def.Words = def.Words.withDefaults(base.Words)
		if def.CommandTemplate == (TemplateSpec{}) {
			def.CommandTemplate = base.CommandTemplate
		}
		return def, nil
	}
	return base.Merge(def), nil
}

// Merge overlays over's tables onto d. Values present in over replace the
// same value's phrases in d.
func (d Definition) Merge(over Definition) Definition {
	out := d.clone()
	if over.Revision != 0 {
		out.Revision = over.Revision
	}
	out.Extend = false
	out.Keys = mergeMapping(out.Keys, over.Keys)
	out.Modifiers = mergeMapping(out.Modifiers, over.Modifiers)
	out.Formats = mergeMapping(out.Formats, over.Formats)
	out.Vocabulary = mergeMapping(out.Vocabulary, over.Vocabulary)
	out.KeySequences = mergeMapping(out.KeySequences, over.KeySequences)
	out.Commands = mergeMapping(out.Commands, over.Commands)
	out.Prefix.Keys = mergeMapping(out.Prefix.Keys, over.Prefix.Keys)
	out.Prefix.Commands = mergeMapping(out.Prefix.Commands, over.Prefix.Commands)
	out.Prefix.Text = mergeMapping(out.Prefix.Text, over.Prefix.Text)
	if over.CommandTemplate != (TemplateSpec{}) {
		out.CommandTemplate = over.CommandTemplate
	}
	out.Words = over.Words.withDefaults(out.Words)
	return out
}

func (d Definition) clone() Definition {
	out := d
	out.Keys = mergeMapping(nil, d.Keys)
	out.Modifiers = mergeMapping(nil, d.Modifiers)
	out.Formats = mergeMapping(nil, d.Formats)
	out.Vocabulary = mergeMapping(nil, d.Vocabulary)
	out.KeySequences = mergeMapping(nil, d.KeySequences)
	out.Commands = mergeMapping(nil, d.Commands)
	out.Prefix.Keys = mergeMapping(nil, d.Prefix.Keys)
	out.Prefix.Commands = mergeMapping(nil, d.Prefix.Commands)
	out.Prefix.Text = mergeMapping(nil, d.Prefix.Text)
	out.Words.Times = append([]string(nil), d.Words.Times...)
	return out
}

func mergeMapping(base, over Mapping) Mapping {
	out := make(Mapping, len(base)+len(over))
	for value, patterns := range base {
		out[value] = append([]string(nil), patterns...)
	}
	for value, patterns := range over {
		out[value] = append([]string(nil), patterns...)
	}
	return out
}

func (w RuleWords) withDefaults(base RuleWords) RuleWords {
	if w.Literal == "" {
		w.Literal = base.Literal
	}
	if w.Connector == "" {
		w.Connector = base.Connector
	}
	if w.Twice == "" {
		w.Twice = base.Twice
	}
	if w.Thrice == "" {
		w.Thrice = base.Thrice
	}
	if len(w.Times) == 0 {
		w.Times = append([]string(nil), base.Times...)
	}
	return w
}
