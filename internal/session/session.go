// Package session owns the loaded grammar and serializes utterances through
// parse, dispatch, and indicator feedback.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/dispatch"
	"github.com/rbright/murmur/internal/fsm"
	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/metrics"
)

var (
	// ErrNotLoaded is returned when an utterance arrives with no grammar loaded.
	ErrNotLoaded = errors.New("grammar not loaded")
	// ErrNoSource is returned by Reload when the controller has no definition source.
	ErrNoSource = errors.New("no grammar definition source")
)

// Source produces the definition to compile on Load and Reload.
type Source func() (grammar.Definition, error)

// Indicator is the session-facing subset of indicator behavior.
type Indicator interface {
	ShowMatch(context.Context, []string)
	ShowError(context.Context, string)
	Hide(context.Context)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowMatch(context.Context, []string) {}
func (noopIndicator) ShowError(context.Context, string)   {}
func (noopIndicator) Hide(context.Context)                {}

// Result is the outcome of one recognized utterance.
type Result struct {
	Utterance string
	Rule      string
	Plan      []string
	Commands  []string
	DryRun    bool
	Report    dispatch.Report
}

// Controller orchestrates grammar lifecycle and utterance dispatch.
type Controller struct {
	logger     *slog.Logger
	source     Source
	host       grammar.Host
	dispatcher *dispatch.Dispatcher
	indicator  Indicator
	metrics    *metrics.Metrics
	speech     SpeechSource

	// exec serializes utterances and lifecycle changes.
	exec sync.Mutex

	mu      sync.RWMutex
	state   fsm.State
	grammar *grammar.Grammar
}

// SpeechSource builds the boosted phrase list a speech engine should be
// primed with once the grammar is registered.
type SpeechSource func() ([]config.SpeechPhrase, error)

// Config wires a Controller. Only Source and Host are required.
type Config struct {
	Logger     *slog.Logger
	Source     Source
	Host       grammar.Host
	Dispatcher *dispatch.Dispatcher
	Indicator  Indicator
	Metrics    *metrics.Metrics
	Speech     SpeechSource
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Indicator == nil {
		cfg.Indicator = noopIndicator{}
	}
	return &Controller{
		logger:     cfg.Logger,
		source:     cfg.Source,
		host:       cfg.Host,
		dispatcher: cfg.Dispatcher,
		indicator:  cfg.Indicator,
		metrics:    cfg.Metrics,
		speech:     cfg.Speech,
		state:      fsm.StateUnloaded,
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) current() *grammar.Grammar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grammar
}

func (c *Controller) compile() (*grammar.Grammar, error) {
	if c.source == nil {
		return nil, ErrNoSource
	}
	def, err := c.source()
	if err != nil {
		return nil, fmt.Errorf("load grammar definition: %w", err)
	}
	g, err := grammar.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}
	return g, nil
}

// Load compiles the source definition and registers it with the host.
func (c *Controller) Load() error {
	c.exec.Lock()
	defer c.exec.Unlock()

	if state := c.State(); state != fsm.StateUnloaded {
		return fmt.Errorf("cannot load from state %s", state)
	}

	g, err := c.compile()
	if err != nil {
		return err
	}
	if err := g.Load(c.host); err != nil {
		c.toErrorAndReset()
		return fmt.Errorf("register grammar: %w", err)
	}

	c.mu.Lock()
	c.grammar = g
	c.mu.Unlock()
	if err := c.transition(fsm.EventLoad); err != nil {
		return err
	}
	c.metrics.SetLoaded(true)
	c.logger.Info("grammar loaded", "revision", g.Revision(), "tags", len(g.Vocabulary()))
	return nil
}

// Unload releases every vocabulary tag. Unloading twice is a no-op.
func (c *Controller) Unload() error {
	c.exec.Lock()
	defer c.exec.Unlock()

	if c.State() == fsm.StateUnloaded {
		return nil
	}

	g := c.current()
	var err error
	if g != nil {
		err = g.Unload()
	}
	_ = c.transition(fsm.EventUnload)
	c.metrics.SetLoaded(false)
	if err != nil {
		c.logger.Error("grammar unload incomplete", "error", err.Error())
		return fmt.Errorf("unregister grammar: %w", err)
	}
	c.logger.Info("grammar unloaded")
	return nil
}

// Reload compiles the source again and swaps it in. A definition that does
// not compile leaves the current grammar loaded.
func (c *Controller) Reload() (int, error) {
	next, err := c.compile()
	if err != nil {
		return 0, err
	}

	c.exec.Lock()
	defer c.exec.Unlock()

	if state := c.State(); state != fsm.StateLoaded {
		return 0, fmt.Errorf("cannot reload from state %s", state)
	}

	old := c.current()
	if err := old.Unload(); err != nil {
		c.logger.Error("old grammar unload incomplete", "error", err.Error())
	}
	if err := next.Load(c.host); err != nil {
		if restoreErr := old.Load(c.host); restoreErr != nil {
			c.logger.Error("restore previous grammar failed", "error", restoreErr.Error())
			_ = c.transition(fsm.EventUnload)
			c.metrics.SetLoaded(false)
			return 0, errors.Join(fmt.Errorf("register grammar: %w", err), restoreErr)
		}
		return 0, fmt.Errorf("register grammar: %w", err)
	}

	c.mu.Lock()
	c.grammar = next
	c.mu.Unlock()
	c.logger.Info("grammar reloaded", "revision", next.Revision())
	return next.Revision(), nil
}

// Parse resolves text without side effects.
func (c *Controller) Parse(text string) (grammar.Match, error) {
	g := c.current()
	if g == nil {
		return grammar.Match{}, ErrNotLoaded
	}
	return g.Parse(text)
}

// Vocabulary returns the loaded grammar's phrases by tag.
func (c *Controller) Vocabulary() ([]grammar.TagVocabulary, error) {
	g := c.current()
	if g == nil {
		return nil, ErrNotLoaded
	}
	return g.Vocabulary(), nil
}

// SpeechPhrases returns the boosted phrases for the loaded grammar plus any
// configured vocab sets. Without a SpeechSource it returns nothing.
func (c *Controller) SpeechPhrases() ([]config.SpeechPhrase, error) {
	if c.current() == nil {
		return nil, ErrNotLoaded
	}
	if c.speech == nil {
		return nil, nil
	}
	return c.speech()
}

// Revision returns the loaded grammar revision, or 0.
func (c *Controller) Revision() int {
	if g := c.current(); g != nil {
		return g.Revision()
	}
	return 0
}

// Recognize resolves one utterance and, unless dryRun is set, executes it.
// Rejected utterances execute nothing. Injection failures are reported in
// the Result and do not return an error.
func (c *Controller) Recognize(ctx context.Context, text string, dryRun bool) (Result, error) {
	c.exec.Lock()
	defer c.exec.Unlock()

	result := Result{Utterance: text, DryRun: dryRun}
	if c.State() != fsm.StateLoaded {
		c.reject(ctx, metrics.OutcomeRejected, ErrNotLoaded)
		return result, ErrNotLoaded
	}

	match, err := c.current().Parse(text)
	if err != nil {
		outcome := metrics.OutcomeRejected
		if errors.Is(err, grammar.ErrSequenceTooLong) {
			outcome = metrics.OutcomeTooLong
		}
		c.reject(ctx, outcome, err)
		return result, err
	}

	result.Rule = match.Rule
	result.Plan = match.Plan()
	for _, cmd := range match.Commands() {
		result.Commands = append(result.Commands, cmd.String())
	}
	c.metrics.ObserveUtterance(metrics.OutcomeAccepted)

	if dryRun || c.dispatcher == nil {
		c.logger.Info("utterance planned", "utterance", text, "rule", match.Rule, "actions", len(match.Actions))
		return result, nil
	}

	if err := c.transition(fsm.EventDispatch); err != nil {
		return result, err
	}
	report, err := c.dispatcher.Dispatch(ctx, match)
	if doneErr := c.transition(fsm.EventDone); doneErr != nil {
		c.logger.Error("session state drift", "error", doneErr.Error())
	}
	if err != nil {
		c.reject(ctx, metrics.OutcomeRejected, err)
		return result, err
	}
	result.Report = report

	if !report.OK() {
		c.indicator.ShowError(ctx, fmt.Sprintf("%d of %d commands failed", len(report.Failures), report.Commands))
		return result, nil
	}
	c.indicator.ShowMatch(ctx, result.Plan)
	return result, nil
}

func (c *Controller) reject(ctx context.Context, outcome string, err error) {
	c.metrics.ObserveUtterance(outcome)
	c.logger.Info("utterance rejected", "outcome", outcome, "error", err.Error())
	c.indicator.ShowError(ctx, rejectionText(err))
}

func rejectionText(err error) string {
	switch {
	case errors.Is(err, grammar.ErrSequenceTooLong):
		return fmt.Sprintf("Too many commands (limit %d)", grammar.MaxActions)
	case errors.Is(err, ErrNotLoaded):
		return "Grammar not loaded"
	default:
		return ""
	}
}

// Run loads the grammar unless it already is, blocks until ctx is
// cancelled, then unloads.
func (c *Controller) Run(ctx context.Context) error {
	if c.State() != fsm.StateLoaded {
		if err := c.Load(); err != nil {
			return err
		}
	}
	<-ctx.Done()

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
	defer cancel()
	c.indicator.Hide(cleanupCtx)
	return c.Unload()
}

// toErrorAndReset transitions to error and back to unloaded best-effort.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

// FailureMessages renders report failures for transports.
func FailureMessages(report dispatch.Report) []string {
	out := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		out = append(out, strings.TrimSpace(f.Error()))
	}
	return out
}
