package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/hypr"
)

// HyprInjector presses chords with hyprctl sendshortcut against the active
// window.
type HyprInjector struct {
	text *TextInserter
}

func (h *HyprInjector) PressChord(ctx context.Context, chord grammar.Chord) error {
	window, err := activeWindowWithRetry(ctx, 5, 10*time.Millisecond)
	if err != nil {
		return err
	}

	payload, err := buildShortcut(chord, window.Address)
	if err != nil {
		return err
	}
	return hypr.SendShortcut(ctx, payload)
}

func (h *HyprInjector) TypeText(ctx context.Context, text string) error {
	return h.text.Insert(ctx, text)
}

var hyprModifiers = map[grammar.Modifier]string{
	grammar.Control: "CTRL",
	grammar.Alt:     "ALT",
	grammar.Super:   "SUPER",
	grammar.Shift:   "SHIFT",
}

// buildShortcut renders "MODS,KEY,address:ADDR" for hyprctl sendshortcut.
func buildShortcut(chord grammar.Chord, windowAddress string) (string, error) {
	address := strings.TrimSpace(windowAddress)
	if address == "" {
		return "", fmt.Errorf("active window address is required")
	}

	sym, err := Keysym(chord.Key)
	if err != nil {
		return "", err
	}

	mods := make([]string, 0, len(chord.Modifiers))
	for _, mod := range chord.Modifiers {
		mods = append(mods, hyprModifiers[mod])
	}
	return fmt.Sprintf("%s,%s,address:%s", strings.Join(mods, " "), sym, address), nil
}

// buildPasteShortcut appends the window address to a literal shortcut such
// as "CTRL,V".
func buildPasteShortcut(shortcut string, windowAddress string) (string, error) {
	shortcut = strings.TrimSpace(shortcut)
	if shortcut == "" {
		return "", fmt.Errorf("paste shortcut cannot be empty")
	}

	address := strings.TrimSpace(windowAddress)
	if address == "" {
		return "", fmt.Errorf("active window address is required")
	}

	return fmt.Sprintf("%s,address:%s", shortcut, address), nil
}

func hyprPaste(ctx context.Context, shortcut string) error {
	window, err := activeWindowWithRetry(ctx, 5, 10*time.Millisecond)
	if err != nil {
		return err
	}

	payload, err := buildPasteShortcut(shortcut, window.Address)
	if err != nil {
		return err
	}
	return hypr.SendShortcut(ctx, payload)
}

func activeWindowWithRetry(ctx context.Context, attempts int, delay time.Duration) (hypr.ActiveWindow, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		window, err := hypr.QueryActiveWindow(ctx)
		if err == nil {
			return window, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return hypr.ActiveWindow{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("active window unavailable")
	}
	return hypr.ActiveWindow{}, fmt.Errorf("resolve active window: %w", lastErr)
}
