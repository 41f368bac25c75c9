// Package output delivers chords and text to the focused window.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/grammar"
)

// Injector presses chords and inserts text into the focused window.
type Injector interface {
	PressChord(ctx context.Context, chord grammar.Chord) error
	TypeText(ctx context.Context, text string) error
}

// New builds the injector named by output.backend.
func New(cfg config.OutputConfig, logger *slog.Logger) (Injector, error) {
	text := NewTextInserter(cfg, logger)

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case config.BackendHypr:
		return &HyprInjector{text: text}, nil
	case config.BackendWtype:
		return &WtypeInjector{text: text}, nil
	case config.BackendRobotgo:
		return newRobotgoInjector()
	case config.BackendDryRun:
		return NewRecorder(logger), nil
	default:
		return nil, fmt.Errorf("unsupported output backend %q", cfg.Backend)
	}
}
