package output

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rbright/murmur/internal/grammar"
)

// Recorder is the dry-run injector. It logs and records every command
// without touching the desktop.
type Recorder struct {
	logger *slog.Logger

	mu       sync.Mutex
	commands []grammar.Command
}

// NewRecorder returns an empty recorder. logger may be nil.
func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

func (r *Recorder) PressChord(_ context.Context, chord grammar.Chord) error {
	r.record(grammar.PressCommand(chord))
	return nil
}

func (r *Recorder) TypeText(_ context.Context, text string) error {
	r.record(grammar.TextCommand(text))
	return nil
}

func (r *Recorder) record(cmd grammar.Command) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("dry-run command", "command", cmd.String())
	}
}

// Commands returns a snapshot of everything recorded so far.
func (r *Recorder) Commands() []grammar.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grammar.Command(nil), r.commands...)
}

// Reset drops the recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()
}
