package output

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/murmur/internal/config"
)

// TextInserter inserts literal text, either by piping it to a typing command
// or by setting the clipboard and pasting.
type TextInserter struct {
	config config.OutputConfig
	logger *slog.Logger
}

// NewTextInserter constructs a text inserter from output config.
func NewTextInserter(cfg config.OutputConfig, logger *slog.Logger) *TextInserter {
	return &TextInserter{config: cfg, logger: logger}
}

// Insert delivers text to the focused window. Empty text is a no-op.
func (t *TextInserter) Insert(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	if strings.ToLower(strings.TrimSpace(t.config.TextMode)) != config.TextModePaste {
		typeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := runCommandWithInput(typeCtx, t.config.TypeCmd.Argv, text); err != nil {
			return fmt.Errorf("type text: %w", err)
		}
		return nil
	}

	clipboardCtx, clipboardCancel := context.WithTimeout(ctx, 2*time.Second)
	defer clipboardCancel()
	if err := runCommandWithInput(clipboardCtx, t.config.Clipboard.Argv, text); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}

	if len(t.config.PasteCmd.Argv) > 0 {
		pasteCtx, pasteCancel := context.WithTimeout(ctx, 2*time.Second)
		defer pasteCancel()
		if err := runCommandWithInput(pasteCtx, t.config.PasteCmd.Argv, ""); err != nil {
			t.logPasteFailure(err)
			return fmt.Errorf("paste: %w", err)
		}
		return nil
	}

	pasteCtx, pasteCancel := context.WithTimeout(ctx, 1200*time.Millisecond)
	defer pasteCancel()
	if err := hyprPaste(pasteCtx, t.config.PasteShortcut); err != nil {
		t.logPasteFailure(err)
		return fmt.Errorf("paste: %w", err)
	}
	return nil
}

// runCommandWithInput executes argv and optionally writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}

// logPasteFailure records paste errors; the clipboard still holds the text.
func (t *TextInserter) logPasteFailure(err error) {
	if t.logger == nil || err == nil {
		return
	}
	t.logger.Error("paste dispatch failed; clipboard remains set", "error", err.Error())
}
