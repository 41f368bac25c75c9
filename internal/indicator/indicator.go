// Package indicator reports accepted and rejected utterances through
// notifications and audio cues.
package indicator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/hypr"
)

// Notifier is the concrete indicator used by runtime sessions. It routes
// notifications via Hyprland or the desktop notification service.
type Notifier struct {
	cfg      config.IndicatorConfig
	logger   *slog.Logger
	messages messages
	desktop  func(title, message string) error

	soundMu sync.Mutex
	cues    sync.WaitGroup

	notifyMu   sync.Mutex
	lastNotify chan struct{}
}

// New creates an indicator from config. logger may be nil.
func New(cfg config.IndicatorConfig, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:      cfg,
		logger:   logger,
		messages: indicatorMessagesFromEnv(),
		desktop: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// ShowMatch signals an accepted utterance. The plan is shown only when
// indicator.show_matches is set.
func (n *Notifier) ShowMatch(ctx context.Context, plan []string) {
	n.playCue(cueAccept)
	if !n.cfg.Enable || !n.cfg.ShowMatches || len(plan) == 0 {
		return
	}
	n.run(ctx, func(ctx context.Context) error {
		return n.notify(ctx, 1, n.timeout(), "rgb(89b4fa)", strings.Join(plan, "; "))
	})
}

// ShowError signals a rejected utterance or a failed injection.
func (n *Notifier) ShowError(ctx context.Context, text string) {
	n.playCue(cueError)
	if !n.cfg.Enable {
		return
	}
	if text == "" {
		text = strings.TrimSpace(n.cfg.TextError)
	}
	if text == "" {
		text = n.messages.errorText
	}
	n.run(ctx, func(ctx context.Context) error {
		return n.notify(ctx, 3, n.timeout(), "rgb(f38ba8)", text)
	})
}

// Hide dismisses the active Hyprland notification. Desktop notifications
// expire on their own.
func (n *Notifier) Hide(ctx context.Context) {
	if !n.cfg.Enable || n.desktopBackend() {
		return
	}
	n.run(ctx, hypr.DismissNotify)
}

// Wait blocks until queued notifications and cues have finished.
func (n *Notifier) Wait() {
	n.cues.Wait()
}

func (n *Notifier) timeout() int {
	if n.cfg.TimeoutMS <= 0 {
		return 1200
	}
	return n.cfg.TimeoutMS
}

func (n *Notifier) desktopBackend() bool {
	return strings.EqualFold(strings.TrimSpace(n.cfg.Backend), "desktop")
}

// notify dispatches indicator output through the configured backend.
func (n *Notifier) notify(ctx context.Context, icon int, timeoutMS int, color string, text string) error {
	if n.desktopBackend() {
		appName := strings.TrimSpace(n.cfg.DesktopAppName)
		if appName == "" {
			appName = "murmur"
		}
		return n.desktop(appName, text)
	}
	return hypr.Notify(ctx, icon, timeoutMS, color, text)
}

// run queues an indicator operation with a bounded timeout. Operations run
// in the order they were queued, off the caller's goroutine.
func (n *Notifier) run(ctx context.Context, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	n.notifyMu.Lock()
	prev := n.lastNotify
	done := make(chan struct{})
	n.lastNotify = done
	n.notifyMu.Unlock()

	n.cues.Add(1)
	go func() {
		defer n.cues.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
		defer cancel()
		if err := fn(runCtx); err != nil {
			n.log("indicator dispatch failed", err)
		}
	}()
}

// playCue serializes cue playback and emits audio asynchronously.
func (n *Notifier) playCue(kind cueKind) {
	if !n.cfg.SoundEnable {
		return
	}
	n.cues.Add(1)
	go func() {
		defer n.cues.Done()
		n.soundMu.Lock()
		defer n.soundMu.Unlock()
		if err := emitCue(context.Background(), kind, n.cfg); err != nil {
			n.log("indicator audio cue failed", err)
		}
	}()
}

// log emits debug-only indicator failures to the runtime logger.
func (n *Notifier) log(message string, err error) {
	if n.logger == nil || err == nil {
		return
	}
	n.logger.Debug(message, "error", err.Error())
}
