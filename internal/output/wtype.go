package output

import (
	"context"

	"github.com/rbright/murmur/internal/grammar"
)

// WtypeInjector presses chords through the wtype virtual keyboard client.
type WtypeInjector struct {
	text *TextInserter
}

var wtypeModifiers = map[grammar.Modifier]string{
	grammar.Control: "ctrl",
	grammar.Alt:     "alt",
	grammar.Super:   "logo",
	grammar.Shift:   "shift",
}

func (w *WtypeInjector) PressChord(ctx context.Context, chord grammar.Chord) error {
	argv, err := wtypeArgv(chord)
	if err != nil {
		return err
	}
	return runCommandWithInput(ctx, argv, "")
}

func (w *WtypeInjector) TypeText(ctx context.Context, text string) error {
	return w.text.Insert(ctx, text)
}

// wtypeArgv holds every modifier, taps the key, then releases in reverse.
func wtypeArgv(chord grammar.Chord) ([]string, error) {
	sym, err := Keysym(chord.Key)
	if err != nil {
		return nil, err
	}

	argv := []string{"wtype"}
	for _, mod := range chord.Modifiers {
		argv = append(argv, "-M", wtypeModifiers[mod])
	}
	argv = append(argv, "-k", sym)
	for i := len(chord.Modifiers) - 1; i >= 0; i-- {
		argv = append(argv, "-m", wtypeModifiers[chord.Modifiers[i]])
	}
	return argv, nil
}
