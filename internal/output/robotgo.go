//go:build robotgo

package output

import (
	"context"

	"github.com/go-vgo/robotgo"

	"github.com/rbright/murmur/internal/grammar"
)

// RobotgoInjector drives the keyboard through robotgo (X11, macOS, Windows).
type RobotgoInjector struct{}

func newRobotgoInjector() (Injector, error) {
	return RobotgoInjector{}, nil
}

func (RobotgoInjector) PressChord(ctx context.Context, chord grammar.Chord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := robotgoKey(chord.Key)
	if err != nil {
		return err
	}
	mods := robotgoModifiers(chord)
	args := make([]interface{}, 0, len(mods))
	for _, mod := range mods {
		args = append(args, mod)
	}
	return robotgo.KeyTap(key, args...)
}

func (RobotgoInjector) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text != "" {
		robotgo.TypeStr(text)
	}
	return nil
}
