// Package dispatch executes resolved actions against an injector.
//
// Actions run strictly in recognition order and never overlap. A failing
// command is logged and recorded, and dispatch continues with the next
// command, so every press of a repeated keystroke is attempted.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/metrics"
	"github.com/rbright/murmur/internal/output"
)

// Failure is one command that could not be injected.
type Failure struct {
	Action  int
	Kind    string
	Command string
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("action %d (%s) %s: %v", f.Action+1, f.Kind, f.Command, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarizes one dispatch.
type Report struct {
	Actions  int
	Commands int
	Failures []Failure
	Duration time.Duration
}

// OK reports whether every command succeeded.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Err joins every failure, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Dispatcher runs matches one command at a time.
type Dispatcher struct {
	injector output.Injector
	logger   *slog.Logger
	metrics  *metrics.Metrics
	delay    time.Duration
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithKeyDelay pauses between consecutive commands.
func WithKeyDelay(d time.Duration) Option {
	return func(dp *Dispatcher) { dp.delay = d }
}

// WithMetrics records action and failure counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(dp *Dispatcher) { dp.metrics = m }
}

// New constructs a dispatcher. logger may be nil.
func New(injector output.Injector, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{injector: injector, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes every action of match. It returns an error only when the
// match is rejected before anything runs; command failures are in the Report.
//
// Cancelling ctx does not cut a sequence short once it has started.
func (d *Dispatcher) Dispatch(ctx context.Context, match grammar.Match) (Report, error) {
	if len(match.Actions) == 0 {
		return Report{}, fmt.Errorf("dispatch: match has no actions")
	}
	if len(match.Actions) > match.ActionLimit() {
		return Report{}, fmt.Errorf("dispatch: %w (got %d)", grammar.ErrSequenceTooLong, len(match.Actions))
	}

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	report := Report{Actions: len(match.Actions)}
	logger := d.logger.With("rule", match.Rule, "utterance", match.Utterance)

	first := true
	for i, action := range match.Actions {
		d.metrics.ObserveAction(action.Kind())
		for _, cmd := range action.Commands() {
			if !first && d.delay > 0 {
				time.Sleep(d.delay)
			}
			first = false

			report.Commands++
			if err := d.run(ctx, cmd); err != nil {
				failure := Failure{Action: i, Kind: action.Kind(), Command: cmd.String(), Err: err}
				report.Failures = append(report.Failures, failure)
				d.metrics.ObserveCommandFailure(cmd.Kind.String())
				logger.Error("command failed", "action", i+1, "kind", action.Kind(), "command", cmd.String(), "error", err.Error())
			}
		}
	}

	report.Duration = time.Since(start)
	d.metrics.ObserveDispatch(report.Duration)
	logger.Info("dispatch complete",
		"actions", report.Actions,
		"commands", report.Commands,
		"failures", len(report.Failures),
		"duration", report.Duration,
	)
	return report, nil
}

func (d *Dispatcher) run(ctx context.Context, cmd grammar.Command) error {
	switch cmd.Kind {
	case grammar.KindChord:
		return d.injector.PressChord(ctx, cmd.Chord)
	case grammar.KindText:
		return d.injector.TypeText(ctx, cmd.Text)
	default:
		return fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
}
