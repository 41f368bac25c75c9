package grammar

import (
	"fmt"
	"strings"

	"github.com/rbright/murmur/internal/format"
)

// MaxRepeat bounds spoken repeat counts.
const MaxRepeat = 100

// MaxActions bounds the number of actions in one sequence.
const MaxActions = 16

// CommandKind distinguishes the two primitive side effects.
type CommandKind int

const (
	// KindChord presses one chord.
	KindChord CommandKind = iota
	// KindText inserts a text block.
	KindText
)

// String returns the kind label used in logs and metrics.
func (k CommandKind) String() string {
	if k == KindText {
		return "text"
	}
	return "chord"
}

// Command is one primitive, independently observable side effect.
type Command struct {
	Kind  CommandKind
	Chord Chord
	Text  string
}

// String renders the command for plans and logs.
func (c Command) String() string {
	if c.Kind == KindText {
		return fmt.Sprintf("text %q", c.Text)
	}
	return "key " + c.Chord.String()
}

// PressCommand builds a chord command.
func PressCommand(chord Chord) Command {
	return Command{Kind: KindChord, Chord: chord}
}

// TextCommand builds a text insertion command.
func TextCommand(text string) Command {
	return Command{Kind: KindText, Text: text}
}

// Action is one resolved element of an utterance.
type Action interface {
	// Kind names the action type: keystroke, keys, text, format, or command.
	Kind() string
	// Commands expands the action into its ordered side effects.
	Commands() []Command
	// Describe renders the action for plans.
	Describe() string
}

// Keystroke is a base chord plus up to two spoken modifiers, pressed Count times.
type Keystroke struct {
	Modifiers []Modifier
	Base      Chord
	Count     int
}

// Kind implements Action.
func (k Keystroke) Kind() string { return "keystroke" }

// Chord returns the chord to press: spoken modifiers first, then the base
// key's own modifiers.
func (k Keystroke) Chord() Chord {
	return k.Base.With(k.Modifiers...)
}

// Commands implements Action with one press per repetition.
func (k Keystroke) Commands() []Command {
	count := k.Count
	if count < 1 {
		count = 1
	}
	chord := k.Chord()
	commands := make([]Command, count)
	for i := range commands {
		commands[i] = PressCommand(chord)
	}
	return commands
}

// Describe implements Action.
func (k Keystroke) Describe() string {
	if k.Count > 1 {
		return fmt.Sprintf("keystroke %s x%d", k.Chord(), k.Count)
	}
	return "keystroke " + k.Chord().String()
}

// KeySequence presses a fixed list of chords, e.g. an editor prefix chain.
type KeySequence struct {
	Spec   string
	Chords []Chord
}

// Kind implements Action.
func (k KeySequence) Kind() string { return "keys" }

// Commands implements Action.
func (k KeySequence) Commands() []Command {
	commands := make([]Command, len(k.Chords))
	for i, chord := range k.Chords {
		commands[i] = PressCommand(chord)
	}
	return commands
}

// Describe implements Action.
func (k KeySequence) Describe() string {
	return "keys " + k.Spec
}

// Text inserts a fixed vocabulary string.
type Text struct {
	Value string
}

// Kind implements Action.
func (t Text) Kind() string { return "text" }

// Commands implements Action. Empty text inserts nothing.
func (t Text) Commands() []Command {
	if t.Value == "" {
		return nil
	}
	return []Command{TextCommand(t.Value)}
}

// Describe implements Action.
func (t Text) Describe() string {
	return fmt.Sprintf("text %q", t.Value)
}

// Format is formatted dictation: a style, its qualifier, and the captured words.
type Format struct {
	Style     string
	Qualifier format.Qualifier
	Words     []string
	Output    string
}

// NewFormat runs the style over the dictation words.
func NewFormat(style string, qualifier format.Qualifier, words []string) (Format, error) {
	output, err := format.Apply(style, qualifier, words)
	if err != nil {
		return Format{}, err
	}
	return Format{Style: style, Qualifier: qualifier, Words: words, Output: output}, nil
}

// Kind implements Action.
func (f Format) Kind() string { return "format" }

// Commands implements Action.
func (f Format) Commands() []Command {
	if f.Output == "" {
		return nil
	}
	return []Command{TextCommand(f.Output)}
}

// Describe implements Action.
func (f Format) Describe() string {
	style := f.Style
	if q := f.Qualifier.String(); q != "" {
		style = q + " " + style
	}
	return fmt.Sprintf("format %s %q -> %q", style, strings.Join(f.Words, " "), f.Output)
}

// CommandTemplate wraps a named command: press Before, type Text with the
// name substituted for %s, press After.
type CommandTemplate struct {
	Before []Chord
	Text   string
	After  []Chord
}

// Invocation runs a named application command through a template.
type Invocation struct {
	Name     string
	Template CommandTemplate
}

// Kind implements Action.
func (c Invocation) Kind() string { return "command" }

// Commands implements Action.
func (c Invocation) Commands() []Command {
	commands := make([]Command, 0, len(c.Template.Before)+len(c.Template.After)+1)
	for _, chord := range c.Template.Before {
		commands = append(commands, PressCommand(chord))
	}
	text := c.Name
	if c.Template.Text != "" {
		text = strings.ReplaceAll(c.Template.Text, "%s", c.Name)
	}
	if text != "" {
		commands = append(commands, TextCommand(text))
	}
	for _, chord := range c.Template.After {
		commands = append(commands, PressCommand(chord))
	}
	return commands
}

// Describe implements Action.
func (c Invocation) Describe() string {
	return "command " + c.Name
}

// Match is the resolved form of one utterance: the rule that accepted it and
// its actions in recognition order.
type Match struct {
	Rule      string
	Utterance string
	Actions   []Action
}

// Commands flattens every action's commands in order.
func (m Match) Commands() []Command {
	var commands []Command
	for _, action := range m.Actions {
		commands = append(commands, action.Commands()...)
	}
	return commands
}

// Plan renders one line per action.
func (m Match) Plan() []string {
	lines := make([]string, len(m.Actions))
	for i, action := range m.Actions {
		lines[i] = action.Describe()
	}
	return lines
}

// ActionLimit is the largest action count a match of this rule may carry.
// A prefix head is not counted against its trailing sequence.
func (m Match) ActionLimit() int {
	if m.Rule == RulePrefix {
		return MaxActions + 1
	}
	return MaxActions
}
